// Package postgres contains the PostgreSQL implementations of the store
// interfaces, the mapping of driver errors onto the store error taxonomy,
// the lazily-probed schema capability flags, and the embedded goose
// migrations.
package postgres
