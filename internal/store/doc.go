// Package store defines the persistence interfaces for the domain entities
// along with shared database plumbing: the DBTX abstraction, transaction
// helpers and the store error taxonomy.
package store
