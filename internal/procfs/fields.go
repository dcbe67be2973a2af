package procfs

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// Field positions of a per-process stat record, 1-indexed as in proc(5).
const (
	StatComm      = 2
	StatUTime     = 14
	StatSTime     = 15
	StatStartTime = 22

	// StatMinFields is the shortest record the process reader accepts.
	StatMinFields = StatStartTime
)

// ReadFields returns the first n whitespace tokens of path. Tokens beyond n
// are ignored; fewer than n is a MalformedRecordError.
func ReadFields(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	return firstN(path, strings.Fields(string(data)), n)
}

// ReadStatFields is ReadFields for a per-process stat record. The command
// name is wrapped in parentheses and may itself contain spaces, so it is
// kept as one token and the remaining positions stay aligned with proc(5).
func ReadStatFields(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	return firstN(path, splitStat(string(data)), n)
}

// Field returns the 1-indexed field pos of fields.
func Field(fields []string, pos int) string {
	return fields[pos-1]
}

// FirstLine returns the first line of path without its trailing newline.
func FirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func firstN(path string, fields []string, n int) ([]string, error) {
	if len(fields) < n {
		return nil, apperrors.MalformedRecordError{Path: path, Want: n, Got: len(fields)}
	}
	return fields[:n], nil
}

func splitStat(s string) []string {
	open := strings.IndexByte(s, '(')
	closing := strings.LastIndexByte(s, ')')
	if open < 0 || closing < open {
		return strings.Fields(s)
	}
	fields := strings.Fields(s[:open])
	fields = append(fields, s[open:closing+1])
	return append(fields, strings.Fields(s[closing+1:])...)
}
