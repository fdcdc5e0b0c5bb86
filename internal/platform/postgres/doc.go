// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX so it can run against
// either a connection pool or a transaction, and WithTx returns a
// transaction-bound copy for use inside store.RunInTransaction.
package postgres
