// Package domain defines the core business entities of the bookkeeping
// application: users, accounts, cards and transactions, together with their
// validation rules and derived monetary values.
package domain
