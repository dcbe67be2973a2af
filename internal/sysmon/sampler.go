package sysmon

import "sync"

// Stats is one system-wide sample for presentation. A metric whose read
// failed carries its error in the matching Err field and a zero value.
type Stats struct {
	CPU       float64
	CPUErr    error
	Memory    float64
	MemoryErr error
	UpTime    int64
	UpTimeErr error
	Processes int
	Running   int
	CountsErr error
}

// Sampler turns the cumulative cpu counters into a utilization over the
// interval between two calls to Sample. It is safe for concurrent use.
type Sampler struct {
	reader *Reader

	mu   sync.Mutex
	prev JiffieBreakdown
	have bool
}

// NewSampler creates a Sampler over r.
func NewSampler(r *Reader) *Sampler {
	return &Sampler{reader: r}
}

// Reset discards the previous cpu reading so the next Sample falls back to
// the since-boot utilization.
func (s *Sampler) Reset() {
	s.mu.Lock()
	s.have = false
	s.mu.Unlock()
}

// CPU returns the utilization since the previous call. The first call, and
// any call after the counters failed to advance, reports the since-boot
// figure instead.
func (s *Sampler) CPU() (float64, error) {
	cur, err := s.reader.JiffieBreakdown()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	prev, have := s.prev, s.have
	s.prev, s.have = cur, true
	s.mu.Unlock()

	if have && cur.Total() > prev.Total() && cur.Active() >= prev.Active() {
		return utilization(cur.Active()-prev.Active(), cur.Total()-prev.Total())
	}
	return utilization(cur.Active(), cur.Total())
}

// Sample reads every system-wide metric once.
func (s *Sampler) Sample() Stats {
	var st Stats
	st.CPU, st.CPUErr = s.CPU()
	st.Memory, st.MemoryErr = s.reader.MemoryUtilization()
	st.UpTime, st.UpTimeErr = s.reader.UpTime()
	st.Processes, st.CountsErr = s.reader.TotalProcesses()
	if st.CountsErr == nil {
		st.Running, st.CountsErr = s.reader.RunningProcesses()
	}
	return st
}
