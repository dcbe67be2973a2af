package procfs

import (
	"path/filepath"
	"strconv"
)

// Default locations of the kernel and identity sources.
const (
	DefaultProcRoot      = "/proc"
	DefaultOSReleasePath = "/etc/os-release"
	DefaultPasswdPath    = "/etc/passwd"
)

// Names of the files read below the proc root.
const (
	StatFile    = "stat"
	MeminfoFile = "meminfo"
	UptimeFile  = "uptime"
	VersionFile = "version"
	CmdlineFile = "cmdline"
	StatusFile  = "status"
)

// FS locates the sources the readers consume. Pointing it at a fixture tree
// lets the whole sampling layer run against recorded kernel output.
type FS struct {
	// ProcRoot is the mount point of the process pseudo-filesystem.
	ProcRoot string
	// OSReleasePath is the KEY="value" OS identity file.
	OSReleasePath string
	// PasswdPath is the colon-delimited password database.
	PasswdPath string
}

// DefaultFS returns the live host locations.
func DefaultFS() FS {
	return FS{
		ProcRoot:      DefaultProcRoot,
		OSReleasePath: DefaultOSReleasePath,
		PasswdPath:    DefaultPasswdPath,
	}
}

// NewFS returns an FS rooted at procRoot, with the identity files resolved
// relative to etcRoot. Empty arguments fall back to the live locations.
func NewFS(procRoot, etcRoot string) FS {
	fs := DefaultFS()
	if procRoot != "" {
		fs.ProcRoot = procRoot
	}
	if etcRoot != "" {
		fs.OSReleasePath = filepath.Join(etcRoot, "os-release")
		fs.PasswdPath = filepath.Join(etcRoot, "passwd")
	}
	return fs
}

// Path joins elem onto the proc root.
func (fs FS) Path(elem ...string) string {
	return filepath.Join(append([]string{fs.ProcRoot}, elem...)...)
}

// PidPath returns the path of a per-process pseudo-file.
func (fs FS) PidPath(pid int, name string) string {
	return filepath.Join(fs.ProcRoot, strconv.Itoa(pid), name)
}
