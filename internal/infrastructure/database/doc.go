// Package database provides SQLite connectivity and schema migrations for
// the heritage catalog.
//
// Connections are opened with foreign keys enforced, a busy timeout, and
// optionally WAL journaling. The pool is capped at one connection because
// SQLite allows a single writer.
//
// Migrations are plain SQL files named YYYYMMDD_HHMMSS_description.up.sql
// with an optional matching .down.sql. The migrations package registers
// them at init time:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
