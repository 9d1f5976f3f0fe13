// Package database provides the SQLite credential store on GORM.
//
// Component opens the database with retry and pooling, applies the embedded
// golang-migrate schema and exposes a CredentialStore over the users table.
// Errors leave the package as AppErrors via FromDatabase.
//
// # Configuration
//
//	storage:
//	  driver: sqlite
//	database:
//	  dsn: "file:habit.db?_busy_timeout=5000&_journal_mode=WAL"
//	  max_open_conns: 4
package database
