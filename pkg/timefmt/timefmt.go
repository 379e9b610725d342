// Package timefmt provides compact human-readable duration formatting.
package timefmt

import (
	"fmt"
	"time"
)

// Short formats a duration as a compact label: "45s", "5m", "5m30s",
// "1h", "1h30m". Sub-second precision is dropped.
func Short(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Truncate(time.Second)

	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Clock formats a duration as a countdown readout: "12:05" or "1:02:30".
func Clock(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Truncate(time.Second)

	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
