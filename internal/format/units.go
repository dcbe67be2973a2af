package format

import "fmt"

// FormatPercent renders a fraction in [0,1] as a percentage with one
// decimal, e.g. 0.125 → "12.5%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatKB renders a size in kB with a binary unit suffix.
func FormatKB(kb int64) string {
	const unit = 1024
	if kb < unit {
		return fmt.Sprintf("%d kB", kb)
	}
	v := float64(kb)
	for _, suffix := range []string{"MB", "GB", "TB"} {
		v /= unit
		if v < unit || suffix == "TB" {
			return fmt.Sprintf("%.1f %s", v, suffix)
		}
	}
	return ""
}
