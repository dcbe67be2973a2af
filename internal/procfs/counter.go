package procfs

import (
	"bufio"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// Scalar lists the value types FindValue can decode, including named types
// built on them.
type Scalar interface {
	~string | ~int | ~int64 | ~uint64 | ~float64
}

// FindValue scans path line by line and returns the second whitespace token
// of the first line whose first token equals key, decoded as T.
//
// The first match wins. The file is closed before returning.
//
// Errors:
//   - SourceUnavailableError when the file cannot be opened or read.
//   - KeyNotFoundError when no line carries key.
//   - MalformedRecordError when the matching line has no value token or
//     the value does not decode as T.
func FindValue[T Scalar](path, key string) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != key {
			continue
		}
		if len(fields) < 2 {
			return zero, apperrors.MalformedRecordError{Path: path, Want: 2, Got: len(fields)}
		}
		v, err := parseScalar[T](fields[1])
		if err != nil {
			return zero, apperrors.MalformedRecordError{
				Path:   path,
				Detail: fmt.Sprintf("value %q of %s: %v", fields[1], key, err),
			}
		}
		return v, nil
	}
	if err := scanner.Err(); err != nil {
		return zero, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	return zero, apperrors.KeyNotFoundError{Path: path, Key: key}
}

func parseScalar[T Scalar](s string) (T, error) {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, rv.Type().Bits())
		if err != nil {
			return v, err
		}
		rv.SetInt(n)
	case reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return v, err
		}
		rv.SetUint(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v, err
		}
		rv.SetFloat(f)
	}
	return v, nil
}
