package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func closedEntry(activityID, name string, start, end time.Duration) Entry {
	return Entry{
		ID:           activityID + "-entry",
		ActivityID:   activityID,
		ActivityName: name,
		StartTime:    sessionStart.Add(start),
		EndTime:      sessionStart.Add(end),
	}
}

func TestMarkerInterval(t *testing.T) {
	tests := []struct {
		span time.Duration
		want time.Duration
	}{
		{45 * time.Second, 10 * time.Second},
		{time.Minute, 10 * time.Second},
		{250 * time.Second, 30 * time.Second},
		{10 * time.Minute, time.Minute},
		{45 * time.Minute, 5 * time.Minute},
		{4000 * time.Second, 10 * time.Minute},
		{3 * time.Hour, 30 * time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MarkerInterval(tt.span), "span %v", tt.span)
	}

	// Granularity is monotonic non-decreasing in span.
	prev := time.Duration(0)
	for _, span := range []time.Duration{30 * time.Second, 2 * time.Minute, 8 * time.Minute, 30 * time.Minute, 90 * time.Minute, 5 * time.Hour} {
		got := MarkerInterval(span)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestCalculate_MarkerCount(t *testing.T) {
	span := Calculate(Input{Target: 45 * time.Second})

	// ceil(45/10)+1 = 6 markers, positions scaled to the effective span.
	require.Len(t, span.Markers, 6)
	assert.Equal(t, 0.0, span.Markers[0].Position)
	assert.InDelta(t, float64(10)/45, span.Markers[1].Position, 1e-9)
	assert.Equal(t, "10s", span.Markers[1].Label)
}

func TestCalculate_NoOvertime(t *testing.T) {
	// Target 1h, activity 0-30m, break 30m-30m30s, now at 40m.
	entries := []Entry{
		closedEntry("a", "Write report", 0, 30*time.Minute),
		closedEntry("", "", 30*time.Minute, 30*time.Minute+30*time.Second),
	}

	span := Calculate(Input{
		Entries: entries,
		Target:  time.Hour,
		Elapsed: 40 * time.Minute,
		Now:     sessionStart.Add(40 * time.Minute),
	})

	assert.Equal(t, time.Hour, span.Effective)
	assert.False(t, span.Overtime)
	assert.Equal(t, 1.0, span.Boundary)

	require.Len(t, span.Items, 2)
	assert.Equal(t, ItemActivity, span.Items[0].Kind)
	assert.InDelta(t, 50.0, span.Items[0].HeightPercent, 1e-9)
	assert.Equal(t, ItemBreak, span.Items[1].Kind)

	// No leftover item while the session is not completed.
	for _, item := range span.Items {
		assert.NotEqual(t, ItemLeftover, item.Kind)
	}
}

func TestCalculate_OvertimeStretchesScale(t *testing.T) {
	entries := []Entry{
		{ID: "e1", ActivityID: "a", ActivityName: "Focus", StartTime: sessionStart},
	}

	span := Calculate(Input{
		Entries: entries,
		Target:  time.Minute,
		Elapsed: 75 * time.Second,
		Now:     sessionStart.Add(75 * time.Second),
	})

	assert.Equal(t, 75*time.Second, span.Effective)
	assert.True(t, span.Overtime)
	assert.InDelta(t, 0.80, span.Boundary, 1e-9)

	require.Len(t, span.Items, 1)
	assert.Equal(t, 75*time.Second, span.Items[0].Duration)
	assert.InDelta(t, 100.0, span.Items[0].HeightPercent, 1e-9)

	// Markers past the target are flagged as overtime.
	last := span.Markers[len(span.Markers)-1]
	assert.True(t, last.Overtime)
}

func TestCalculate_OngoingEntryMeasuresAgainstNow(t *testing.T) {
	entries := []Entry{
		{ID: "e1", ActivityID: "a", ActivityName: "Focus", StartTime: sessionStart},
	}

	span := Calculate(Input{
		Entries: entries,
		Target:  time.Hour,
		Elapsed: 10 * time.Minute,
		Now:     sessionStart.Add(10 * time.Minute),
	})

	require.Len(t, span.Items, 1)
	assert.Equal(t, 10*time.Minute, span.Items[0].Duration)
}

func TestCalculate_LeftoverItem(t *testing.T) {
	entries := []Entry{
		closedEntry("a", "Focus", 0, 40*time.Minute),
	}

	span := Calculate(Input{
		Entries:      entries,
		Target:       time.Hour,
		Elapsed:      40 * time.Minute,
		Now:          sessionStart.Add(40 * time.Minute),
		AllCompleted: true,
	})

	require.Len(t, span.Items, 2)
	leftover := span.Items[1]
	assert.Equal(t, ItemLeftover, leftover.Kind)
	assert.Nil(t, leftover.Entry)
	assert.Equal(t, 20*time.Minute, leftover.Duration)
	assert.InDelta(t, float64(40)/60, leftover.StartRel, 1e-9)
}

func TestCalculate_NoLeftoverWhenOvertime(t *testing.T) {
	entries := []Entry{
		closedEntry("a", "Focus", 0, 70*time.Minute),
	}

	span := Calculate(Input{
		Entries:      entries,
		Target:       time.Hour,
		Elapsed:      70 * time.Minute,
		Now:          sessionStart.Add(70 * time.Minute),
		AllCompleted: true,
	})

	require.Len(t, span.Items, 1)
}

func TestCalculate_EmptyEntries(t *testing.T) {
	span := Calculate(Input{Target: 5 * time.Minute})

	assert.Empty(t, span.Items)
	assert.NotEmpty(t, span.Markers, "markers come solely from the effective duration")
}

func TestCalculate_ZeroTarget(t *testing.T) {
	span := Calculate(Input{})

	assert.Empty(t, span.Items)
	assert.Empty(t, span.Markers)
}
