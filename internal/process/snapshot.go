package process

import "strconv"

// Snapshot is every per-process metric read at one instant.
type Snapshot struct {
	PID     int
	Command string
	UID     string
	User    string
	RAMKB   int64
	// StartTime is in seconds since boot.
	StartTime int64
	Age       int64
	CPU       float64
}

// RAM returns the resident set size in MB as a decimal string.
func (s Snapshot) RAM() string { return strconv.FormatInt(s.RAMKB/1024, 10) }

// Snapshot reads all metrics of pid, resolving its owner through dir. As
// with User, a nil dir reads the password database for this call alone. The
// stat record and the system uptime are read once so that the derived
// figures are consistent with each other.
func (r *Reader) Snapshot(pid int, dir *UserDirectory) (Snapshot, error) {
	st, err := r.stat(pid)
	if err != nil {
		return Snapshot{}, err
	}
	sysUp, err := r.sys.UpTime()
	if err != nil {
		return Snapshot{}, err
	}
	cmd, err := r.Command(pid)
	if err != nil {
		return Snapshot{}, err
	}
	uid, err := r.UID(pid)
	if err != nil {
		return Snapshot{}, err
	}
	kb, err := r.RAMKB(pid)
	if err != nil {
		return Snapshot{}, err
	}
	if dir, err = r.directory(dir); err != nil {
		return Snapshot{}, err
	}
	user, _ := dir.Lookup(uid)

	hz := r.hz()
	start := st.start / hz
	return Snapshot{
		PID:       pid,
		Command:   cmd,
		UID:       uid,
		User:      user,
		RAMKB:     kb,
		StartTime: start,
		Age:       age(sysUp, start),
		CPU:       st.utilization(sysUp, hz),
	}, nil
}
