// Package store defines the persistence contract for cards.
//
// The study engine never talks to a database directly: it reads cards through
// CardStore and hands schedule updates back to it. Implementations live under
// internal/platform (sqlstore for postgres and sqlite, memory for tests and
// local runs).
package store
