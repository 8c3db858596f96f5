// Package task runs background work on a bounded in-memory queue drained by a
// pool of workers. The study engine uses it to persist schedule updates
// without blocking the review loop.
package task
