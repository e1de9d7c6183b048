// Package mocks provides mock implementations of service and store
// interfaces for testing handlers and middleware without a database.
package mocks
