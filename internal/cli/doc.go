// Package cli implements procmon's non-interactive surfaces: the one-shot
// text report printed by --once and the shell completion scripts.
//
// # Naming Conventions
//
//   - Render* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
package cli
