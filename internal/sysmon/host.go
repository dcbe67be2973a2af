package sysmon

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
)

// HostInfo identifies the machine for the dashboard header.
type HostInfo struct {
	Hostname string
	Arch     string
	CPUs     int
	BootTime time.Time
}

// Host gathers static machine information. Fields that cannot be read are
// left at their zero value.
func Host(ctx context.Context) HostInfo {
	info := HostInfo{Arch: machine()}
	if hi, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hi.Hostname
		if hi.BootTime > 0 {
			info.BootTime = time.Unix(int64(hi.BootTime), 0)
		}
		if info.Arch == "" {
			info.Arch = hi.KernelArch
		}
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.CPUs = n
	}
	return info
}
