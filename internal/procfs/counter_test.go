package procfs_test

import (
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/procfs"
	"github.com/agbru/procmon/internal/procfs/procfstest"
)

func TestFindValue_FirstMatchWins(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	path := tr.Proc("counters", "foo 1\nbar 2\nfoo 3\n")

	got, err := procfs.FindValue[int](path, "foo")
	if err != nil {
		t.Fatalf("FindValue: %v", err)
	}
	if got != 1 {
		t.Errorf("FindValue(foo) = %d, want 1", got)
	}
}

func TestFindValue_Types(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	path := tr.Proc("status", "Name:\tbash\nUid:\t1000\t1000\t1000\t1000\nVmRSS:\t   20480 kB\nratio 0.25\nbig 18446744073709551615\n")

	t.Run("string", func(t *testing.T) {
		got, err := procfs.FindValue[string](path, "Uid:")
		if err != nil || got != "1000" {
			t.Errorf("FindValue[string](Uid:) = %q, %v; want \"1000\", nil", got, err)
		}
	})
	t.Run("int64 with unit suffix", func(t *testing.T) {
		got, err := procfs.FindValue[int64](path, "VmRSS:")
		if err != nil || got != 20480 {
			t.Errorf("FindValue[int64](VmRSS:) = %d, %v; want 20480, nil", got, err)
		}
	})
	t.Run("float64", func(t *testing.T) {
		got, err := procfs.FindValue[float64](path, "ratio")
		if err != nil || got != 0.25 {
			t.Errorf("FindValue[float64](ratio) = %f, %v; want 0.25, nil", got, err)
		}
	})
	t.Run("uint64", func(t *testing.T) {
		got, err := procfs.FindValue[uint64](path, "big")
		if err != nil || got != 18446744073709551615 {
			t.Errorf("FindValue[uint64](big) = %d, %v", got, err)
		}
	})
}

type (
	kilobytes int64
	uidString string
)

func TestFindValue_NamedTypes(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	path := tr.Proc("status", "Uid:\t1000\t1000\t1000\t1000\nVmRSS:\t   20480 kB\nVmSwap: lots kB\n")

	kb, err := procfs.FindValue[kilobytes](path, "VmRSS:")
	if err != nil || kb != 20480 {
		t.Errorf("FindValue[kilobytes](VmRSS:) = %d, %v; want 20480, nil", kb, err)
	}
	uid, err := procfs.FindValue[uidString](path, "Uid:")
	if err != nil || uid != "1000" {
		t.Errorf("FindValue[uidString](Uid:) = %q, %v; want \"1000\", nil", uid, err)
	}
	_, err = procfs.FindValue[kilobytes](path, "VmSwap:")
	var mr apperrors.MalformedRecordError
	if !errors.As(err, &mr) {
		t.Errorf("FindValue[kilobytes](VmSwap:) error = %v, want MalformedRecordError", err)
	}
}

func TestFindValue_Errors(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	path := tr.Proc("stat", "processes 12\nempty\nprocs_running x\n")

	t.Run("missing file", func(t *testing.T) {
		_, err := procfs.FindValue[int](filepath.Join(tr.Root, "nope"), "processes")
		var srcErr apperrors.SourceUnavailableError
		if !errors.As(err, &srcErr) {
			t.Fatalf("expected SourceUnavailableError, got %v", err)
		}
	})
	t.Run("missing key", func(t *testing.T) {
		got, err := procfs.FindValue[int](path, "procs_blocked")
		var keyErr apperrors.KeyNotFoundError
		if !errors.As(err, &keyErr) {
			t.Fatalf("expected KeyNotFoundError, got %v", err)
		}
		if keyErr.Key != "procs_blocked" {
			t.Errorf("Key = %q, want procs_blocked", keyErr.Key)
		}
		if got != 0 {
			t.Errorf("value on error = %d, want zero", got)
		}
	})
	t.Run("key without value", func(t *testing.T) {
		_, err := procfs.FindValue[string](path, "empty")
		var mr apperrors.MalformedRecordError
		if !errors.As(err, &mr) {
			t.Fatalf("expected MalformedRecordError, got %v", err)
		}
	})
	t.Run("value does not parse", func(t *testing.T) {
		_, err := procfs.FindValue[int](path, "procs_running")
		var mr apperrors.MalformedRecordError
		if !errors.As(err, &mr) {
			t.Fatalf("expected MalformedRecordError, got %v", err)
		}
	})
	t.Run("key match is exact", func(t *testing.T) {
		_, err := procfs.FindValue[int](path, "process")
		if !apperrors.IsUnavailable(err) {
			t.Fatalf("prefix of a key must not match, got %v", err)
		}
	})
}

func TestFindValue_Idempotent(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	path := tr.Proc("stat", procfstest.SystemStat([10]uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 321, 4))

	first, err1 := procfs.FindValue[int](path, "processes")
	second, err2 := procfs.FindValue[int](path, "processes")
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if first != second || first != 321 {
		t.Errorf("FindValue not idempotent: %d then %d", first, second)
	}
}
