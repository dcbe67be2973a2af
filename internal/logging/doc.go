// Package logging provides the structured logging interface used across
// procmon. Components depend on the Logger interface; the default backend
// is zerolog, with an adapter over the standard library log.Logger for
// callers that already have one.
package logging
