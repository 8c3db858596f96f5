// Package sqlstore implements store.CardStore on database/sql for PostgreSQL
// (pgx stdlib driver) and SQLite (modernc, pure Go). Both dialects share the
// same queries; schema lives in embedded goose migrations per dialect.
package sqlstore
