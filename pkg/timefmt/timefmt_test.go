package timefmt

import (
	"testing"
	"time"
)

func TestShort(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{5 * time.Minute, "5m"},
		{5*time.Minute + 30*time.Second, "5m30s"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h30m"},
		{-30 * time.Second, "30s"},
	}

	for _, tt := range tests {
		if got := Short(tt.in); got != tt.want {
			t.Errorf("Short(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{65 * time.Second, "1:05"},
		{time.Hour + 2*time.Minute + 30*time.Second, "1:02:30"},
	}

	for _, tt := range tests {
		if got := Clock(tt.in); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
