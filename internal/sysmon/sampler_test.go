package sysmon_test

import (
	"math"
	"testing"

	"github.com/agbru/procmon/internal/procfs/procfstest"
	"github.com/agbru/procmon/internal/sysmon"
)

func TestSampler_CPUDelta(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	tr.Proc("stat", procfstest.SystemStat([10]uint64{100, 0, 100, 800, 0, 0, 0, 0, 0, 0}, 1, 1))
	s := sysmon.NewSampler(sysmon.NewReader(tr.FS))

	first, err := s.CPU()
	if err != nil {
		t.Fatalf("CPU: %v", err)
	}
	if math.Abs(first-0.2) > 1e-12 {
		t.Errorf("first CPU() = %v, want since-boot 0.2", first)
	}

	// 50 active out of 100 elapsed.
	tr.Proc("stat", procfstest.SystemStat([10]uint64{130, 0, 120, 850, 0, 0, 0, 0, 0, 0}, 1, 1))
	second, err := s.CPU()
	if err != nil {
		t.Fatalf("CPU: %v", err)
	}
	if math.Abs(second-0.5) > 1e-12 {
		t.Errorf("second CPU() = %v, want 0.5", second)
	}

	// No progress falls back to since-boot.
	third, err := s.CPU()
	if err != nil {
		t.Fatalf("CPU: %v", err)
	}
	if want := 250.0 / 1100.0; math.Abs(third-want) > 1e-12 {
		t.Errorf("stalled CPU() = %v, want %v", third, want)
	}

	s.Reset()
	if got, _ := s.CPU(); math.Abs(got-250.0/1100.0) > 1e-12 {
		t.Errorf("CPU() after Reset = %v", got)
	}
}

func TestSampler_Sample(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	tr.Proc("stat", procfstest.SystemStat([10]uint64{1, 0, 1, 8, 0, 0, 0, 0, 0, 0}, 500, 2))
	tr.Proc("meminfo", procfstest.Meminfo(1000, 250))
	tr.Proc("uptime", "300.50 10.00\n")

	st := sysmon.NewSampler(sysmon.NewReader(tr.FS)).Sample()
	if st.CPUErr != nil || st.MemoryErr != nil || st.UpTimeErr != nil || st.CountsErr != nil {
		t.Fatalf("unexpected errors: %+v", st)
	}
	if st.UpTime != 300 || st.Processes != 500 || st.Running != 2 {
		t.Errorf("Sample() = %+v", st)
	}
	if math.Abs(st.Memory-0.75) > 1e-9 {
		t.Errorf("Memory = %v, want 0.75", st.Memory)
	}
}

func TestSampler_SampleReportsPerMetricErrors(t *testing.T) {
	t.Parallel()
	tr := procfstest.NewTree(t)
	tr.Proc("meminfo", procfstest.Meminfo(0, 0))
	tr.Proc("uptime", "42.0 1.0\n")

	st := sysmon.NewSampler(sysmon.NewReader(tr.FS)).Sample()
	if st.CPUErr == nil || st.MemoryErr == nil || st.CountsErr == nil {
		t.Errorf("expected cpu, memory and count errors: %+v", st)
	}
	if st.UpTimeErr != nil || st.UpTime != 42 {
		t.Errorf("uptime should still be read: %+v", st)
	}
}
