// Package procfs reads the text pseudo-files a Unix kernel exposes under
// /proc (and the identity files under /etc) and turns them into typed
// scalars. It holds no state between calls: every function opens, scans and
// closes its source.
//
// Failures are explicit. A missing file, a missing key and a short record are
// reported as distinct apperrors types so that callers can tell "0" from
// "unknown".
package procfs
