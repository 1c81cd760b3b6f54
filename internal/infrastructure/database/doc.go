// Package database provides SQLite connectivity for SQLite Web Manager.
//
// Unlike a long-running service that keeps a pool open, the admin layer
// opens the managed file for each logical operation and closes it again, so
// the file can be replaced, moved or locked by other tools between requests.
// Open therefore returns a handle limited to a single connection.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: "./data/app.db", BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
// Connection string pragmas:
//   - _busy_timeout: lock-wait for concurrent writers (BusyTimeout seconds)
//   - _foreign_keys=on: enforce declared foreign keys
//   - _journal_mode=WAL, _synchronous=NORMAL: when WALMode is set
package database
