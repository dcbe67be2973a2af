package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from flagRegistry, so adding a
// flag only requires appending to it.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "duration")
	IsFile    bool     // true if the flag takes a file path
	IsDir     bool     // true if the flag takes a directory
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "interval", Help: "Dashboard refresh interval", Values: []string{"500ms", "1s", "2s", "5s"}, ValueName: "duration"},
	{Long: "timeout", Help: "Maximum duration of one sampling cycle", Values: []string{"0", "1s", "5s", "10s"}, ValueName: "duration"},
	{Long: "once", Help: "Print a single report and exit"},
	{Long: "quiet", Short: "q", Help: "Suppress the progress spinner"},
	{Long: "top", Short: "n", Help: "Number of processes to show", Values: []string{"10", "25", "50", "0"}, ValueName: "count"},
	{Long: "sort", Help: "Process ordering", Values: []string{"cpu", "ram", "age", "pid"}, ValueName: "key"},
	{Long: "workers", Help: "Concurrent process readers", ValueName: "count"},
	{Long: "proc-root", Help: "Mount point of the proc filesystem", IsDir: true, ValueName: "dir"},
	{Long: "os-release", Help: "Path of the os-release file", IsFile: true, ValueName: "file"},
	{Long: "passwd", Help: "Path of the password database", IsFile: true, ValueName: "file"},
	{Long: "env-file", Help: "Optional .env file", IsFile: true, ValueName: "file"},
	{Long: "no-color", Help: "Disable colours"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "log-format", Help: "Log format", Values: []string{"json", "console", "text"}, ValueName: "format"},
	{Long: "log-file", Help: "Write logs to this file", IsFile: true, ValueName: "file"},
	{Long: "metrics-addr", Help: "Serve Prometheus metrics on this address", Values: []string{":9120"}, ValueName: "addr"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// Shells lists the shells GenerateCompletion supports.
var Shells = []string{"bash", "zsh", "fish"}

// GenerateCompletion writes a completion script for shell to out.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(Shells, ", "))
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion() string {
	var opts []string
	var cases strings.Builder
	var files, dirs []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsFile:
			files = append(files, flagPatterns(f)...)
		case f.IsDir:
			dirs = append(dirs, flagPatterns(f)...)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(flagPatterns(f), "|"), strings.Join(f.Values, " "))
		}
	}
	fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
		strings.Join(files, "|"))
	fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -d -- \"${cur}\") )\n            return 0\n            ;;\n",
		strings.Join(dirs, "|"))

	return fmt.Sprintf(`# Bash completion script for procmon
# Source this file or place it in /etc/bash_completion.d/

_procmon() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    return 0
}

complete -F _procmon procmon
`, strings.Join(opts, " "), cases.String())
}

// flagPatterns returns the spellings of f that bash should match.
func flagPatterns(f FlagCompletion) []string {
	var p []string
	if f.Long != "" {
		p = append(p, "--"+f.Long, "-"+f.Long)
	}
	if f.Short != "" {
		p = append(p, "-"+f.Short)
	}
	return p
}

func zshCompletion() string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef procmon

# Zsh completion script for procmon
# Place this file in a directory of $fpath as _procmon

_procmon() {
    _arguments -s \
%s
}

_procmon "$@"
`, strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsDir:
		valueSuffix = fmt.Sprintf(":%s:_directories", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func fishCompletion() string {
	var b strings.Builder
	b.WriteString("# Fish completion script for procmon\n# Place this file in ~/.config/fish/completions/procmon.fish\n\n")
	for _, f := range flagRegistry {
		b.WriteString(fishCompleteLine(f))
		b.WriteByte('\n')
	}
	return b.String()
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c procmon"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-l "+f.Long)
	switch {
	case f.IsFile, f.IsDir:
		parts = append(parts, "-r -F")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-x -a '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
	return strings.Join(parts, " ")
}
