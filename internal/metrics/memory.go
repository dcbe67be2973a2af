package metrics

import "runtime"

// MemorySnapshot is procmon's own memory footprint at one instant, shown
// in the dashboard footer.
type MemorySnapshot struct {
	HeapAlloc uint64 // bytes in use
	Sys       uint64 // bytes obtained from the OS
	NumGC     uint32
}

// HeapAllocKB returns HeapAlloc in kB.
func (s MemorySnapshot) HeapAllocKB() int64 { return int64(s.HeapAlloc / 1024) }

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{HeapAlloc: m.HeapAlloc, Sys: m.Sys, NumGC: m.NumGC}
}
