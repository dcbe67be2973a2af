package process

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// SortKey names the column a Collection is ordered by.
type SortKey string

// Supported sort keys. Every key but SortPID orders descending.
const (
	SortCPU SortKey = "cpu"
	SortRAM SortKey = "ram"
	SortAge SortKey = "age"
	SortPID SortKey = "pid"
)

// SortKeys lists the keys in the order the dashboard cycles through them.
var SortKeys = []SortKey{SortCPU, SortRAM, SortAge, SortPID}

// ParseSortKey validates s as a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", apperrors.ValidationError{
		Field:   "sort",
		Message: fmt.Sprintf("unknown sort key %q (want cpu, ram, age or pid)", s),
	}
}

// Next returns the key following k in SortKeys.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// Collection is the outcome of one collection cycle.
type Collection struct {
	Processes []Snapshot
	// Vanished counts pids that exited between enumeration and reading.
	Vanished int
	// Failed counts pids whose records could not be parsed.
	Failed int
	// UsersErr is set when the password database could not be read; user
	// names are then empty.
	UsersErr error
	Duration time.Duration
}

// SortBy orders the processes by key. Ties are broken by ascending pid.
func (c *Collection) SortBy(key SortKey) {
	slices.SortStableFunc(c.Processes, func(a, b Snapshot) int {
		var r int
		switch key {
		case SortCPU:
			r = cmp.Compare(b.CPU, a.CPU)
		case SortRAM:
			r = cmp.Compare(b.RAMKB, a.RAMKB)
		case SortAge:
			r = cmp.Compare(b.Age, a.Age)
		}
		if r != 0 {
			return r
		}
		return cmp.Compare(a.PID, b.PID)
	})
}

// Top returns at most n processes from the head of the collection. A
// non-positive n returns all of them.
func (c Collection) Top(n int) []Snapshot {
	if n <= 0 || n >= len(c.Processes) {
		return c.Processes
	}
	return c.Processes[:n]
}
