package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/procmon/internal/sysmon"
)

const namespace = "procmon"

// SystemSource is the subset of sysmon.Reader the collector scrapes.
type SystemSource interface {
	JiffieBreakdown() (sysmon.JiffieBreakdown, error)
	MemoryUtilization() (float64, error)
	UpTime() (int64, error)
	TotalProcesses() (int, error)
	RunningProcesses() (int, error)
}

// SystemCollector is a prometheus.Collector over a SystemSource. A metric
// whose source cannot be read is omitted from the scrape and its
// procmon_source_up series reports 0.
type SystemCollector struct {
	src SystemSource

	jiffies  *prometheus.Desc
	cpuUtil  *prometheus.Desc
	memUtil  *prometheus.Desc
	uptime   *prometheus.Desc
	forks    *prometheus.Desc
	running  *prometheus.Desc
	sourceUp *prometheus.Desc
}

// NewSystemCollector creates a collector reading src on every scrape.
func NewSystemCollector(src SystemSource) *SystemCollector {
	return &SystemCollector{
		src: src,
		jiffies: prometheus.NewDesc(prometheus.BuildFQName(namespace, "cpu", "jiffies_total"),
			"Aggregate CPU time since boot in clock ticks, by mode.", []string{"mode"}, nil),
		cpuUtil: prometheus.NewDesc(prometheus.BuildFQName(namespace, "cpu", "utilization_ratio"),
			"Non-idle share of CPU time since boot, guest time excluded.", nil, nil),
		memUtil: prometheus.NewDesc(prometheus.BuildFQName(namespace, "memory", "utilization_ratio"),
			"1 - MemFree/MemTotal.", nil, nil),
		uptime: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Whole seconds since boot.", nil, nil),
		forks: prometheus.NewDesc(prometheus.BuildFQName(namespace, "processes", "forked_total"),
			"Processes created since boot.", nil, nil),
		running: prometheus.NewDesc(prometheus.BuildFQName(namespace, "processes", "running"),
			"Processes currently runnable.", nil, nil),
		sourceUp: prometheus.NewDesc(prometheus.BuildFQName(namespace, "source", "up"),
			"Whether the last read of a kernel source succeeded.", []string{"source"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *SystemCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.jiffies, c.cpuUtil, c.memUtil, c.uptime, c.forks, c.running, c.sourceUp} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *SystemCollector) Collect(ch chan<- prometheus.Metric) {
	j, err := c.src.JiffieBreakdown()
	c.up(ch, "cpu", err)
	if err == nil {
		for _, m := range []struct {
			mode string
			v    uint64
		}{
			{"user", j.User}, {"nice", j.Nice}, {"system", j.System}, {"idle", j.Idle},
			{"iowait", j.IOWait}, {"irq", j.IRQ}, {"softirq", j.SoftIRQ}, {"steal", j.Steal},
			{"guest", j.Guest}, {"guest_nice", j.GuestNice},
		} {
			ch <- prometheus.MustNewConstMetric(c.jiffies, prometheus.CounterValue, float64(m.v), m.mode)
		}
		if total := j.Total(); total > 0 {
			ch <- prometheus.MustNewConstMetric(c.cpuUtil, prometheus.GaugeValue, float64(j.Active())/float64(total))
		}
	}

	mem, err := c.src.MemoryUtilization()
	c.up(ch, "memory", err)
	if err == nil {
		ch <- prometheus.MustNewConstMetric(c.memUtil, prometheus.GaugeValue, mem)
	}

	up, err := c.src.UpTime()
	c.up(ch, "uptime", err)
	if err == nil {
		ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, float64(up))
	}

	forks, err := c.src.TotalProcesses()
	if err == nil {
		var running int
		running, err = c.src.RunningProcesses()
		if err == nil {
			ch <- prometheus.MustNewConstMetric(c.forks, prometheus.CounterValue, float64(forks))
			ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, float64(running))
		}
	}
	c.up(ch, "processes", err)
}

func (c *SystemCollector) up(ch chan<- prometheus.Metric, source string, err error) {
	v := 1.0
	if err != nil {
		v = 0
	}
	ch <- prometheus.MustNewConstMetric(c.sourceUp, prometheus.GaugeValue, v, source)
}
