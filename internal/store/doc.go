// Package store defines the persistence interfaces consumed by the
// service layer, together with shared database plumbing: the DBTX
// abstraction, the transaction runner, and the sentinel error tree.
// Concrete implementations live under internal/platform.
package store
