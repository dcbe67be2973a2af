package process

import (
	"bufio"
	"os"
	"strings"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// UserDirectory maps uid strings to user names. It is immutable once built
// and safe for concurrent lookups.
type UserDirectory struct {
	names map[string]string
}

// NewUserDirectory builds a directory from uid → name pairs.
func NewUserDirectory(entries map[string]string) *UserDirectory {
	names := make(map[string]string, len(entries))
	for uid, name := range entries {
		names[uid] = name
	}
	return &UserDirectory{names: names}
}

// LoadUserDirectory reads a passwd(5) database. Records are split on ':'
// with the name in field 0 and the uid in field 2. When a uid appears more
// than once the last record wins.
func LoadUserDirectory(path string) (*UserDirectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	defer f.Close()

	dir := &UserDirectory{names: make(map[string]string)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		if len(fields) < 3 {
			continue
		}
		dir.names[fields[2]] = fields[0]
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	return dir, nil
}

// Lookup returns the user name for uid.
func (d *UserDirectory) Lookup(uid string) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d.names[uid]
	return name, ok
}

// Len returns the number of uids in the directory.
func (d *UserDirectory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}
