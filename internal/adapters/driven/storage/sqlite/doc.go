// Package sqlite provides a SQLite-backed vault catalogue.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Store owns the connection and hands out a
// driven.VaultIndex over it.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default the database is stored at ~/.phantom/vault/vault.db, next to
// the vault objects it describes.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on SQLite's
// WAL mode and busy timeout for locking.
package sqlite
