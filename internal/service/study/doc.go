// Package study is the application service behind the HTTP API. It holds the
// live session controllers of all learners, serialises commands per session,
// evicts idle sessions and handles card authoring and postponing.
package study
