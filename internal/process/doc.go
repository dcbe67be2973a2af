// Package process reads per-process metrics from the proc filesystem and
// collects snapshots of every live pid for presentation.
//
// Reads are synchronous and scoped to one pid. A pid whose pseudo-files
// disappear between enumeration and reading yields a
// ProcessVanishedError; the Collector skips such pids instead of failing
// the whole cycle.
//
// User names are resolved through a UserDirectory built from the password
// database once per refresh cycle and passed to every read in that cycle.
package process
