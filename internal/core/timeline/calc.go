package timeline

import (
	"math"
	"time"

	"github.com/timebox-sh/timebox/pkg/timefmt"
)

// ItemKind classifies a rendered timeline segment.
type ItemKind int

const (
	ItemActivity ItemKind = iota
	ItemBreak
	ItemLeftover
)

// Item is one proportioned timeline segment.
type Item struct {
	Kind          ItemKind
	Entry         *Entry // nil for the synthesized leftover item
	Start         time.Duration
	Duration      time.Duration
	StartRel      float64
	DurationRel   float64
	HeightPercent float64
}

// Marker is one ruler label.
type Marker struct {
	Offset   time.Duration
	Position float64
	Label    string
	Overtime bool
}

// Input carries everything the calculator needs for one recompute.
type Input struct {
	Entries      []Entry
	Target       time.Duration
	Elapsed      time.Duration
	Now          time.Time
	AllCompleted bool
}

// Span is the renderable timeline model.
type Span struct {
	Effective time.Duration
	Boundary  float64
	Overtime  bool
	Markers   []Marker
	Items     []Item
}

// Calculate turns the chronological record into a gapless, scaled span
// model. Pure: the same input always yields the same output.
func Calculate(in Input) Span {
	effective := in.Target
	overtime := in.Elapsed > in.Target
	if overtime {
		// Stretch the ruler to show overtime rather than clipping it.
		effective = in.Elapsed
	}

	if effective <= 0 {
		return Span{Boundary: 1}
	}

	boundary := 1.0
	if overtime {
		boundary = ratio(in.Target, effective)
	}

	return Span{
		Effective: effective,
		Boundary:  boundary,
		Overtime:  overtime,
		Markers:   markers(effective, in.Target),
		Items:     items(in, effective),
	}
}

// MarkerInterval maps a total span to a ruler granularity, coarsening as
// the span grows so the ruler never renders more than a bounded number
// of labels.
func MarkerInterval(span time.Duration) time.Duration {
	switch {
	case span <= time.Minute:
		return 10 * time.Second
	case span <= 5*time.Minute:
		return 30 * time.Second
	case span <= 10*time.Minute:
		return time.Minute
	case span <= time.Hour:
		return 5 * time.Minute
	case span <= 2*time.Hour:
		return 10 * time.Minute
	default:
		return 30 * time.Minute
	}
}

func markers(effective, target time.Duration) []Marker {
	interval := MarkerInterval(effective)
	count := int(math.Ceil(float64(effective)/float64(interval))) + 1

	out := make([]Marker, 0, count)
	for i := 0; i < count; i++ {
		offset := time.Duration(i) * interval
		out = append(out, Marker{
			Offset:   offset,
			Position: ratio(offset, effective),
			Label:    timefmt.Short(offset),
			Overtime: offset > target,
		})
	}
	return out
}

func items(in Input, effective time.Duration) []Item {
	if len(in.Entries) == 0 && !in.AllCompleted {
		return nil
	}

	var out []Item
	var sessionStart time.Time
	if len(in.Entries) > 0 {
		sessionStart = in.Entries[0].StartTime
	}

	for i := range in.Entries {
		entry := in.Entries[i]
		d := entry.Duration(in.Now)
		start := entry.StartTime.Sub(sessionStart)

		kind := ItemActivity
		if entry.IsBreak() {
			kind = ItemBreak
		}

		out = append(out, Item{
			Kind:          kind,
			Entry:         &entry,
			Start:         start,
			Duration:      d,
			StartRel:      ratio(start, effective),
			DurationRel:   ratio(d, effective),
			HeightPercent: ratio(d, effective) * 100,
		})
	}

	// Unused planned time after everything finished early renders as a
	// trailing "remaining time" segment.
	if in.AllCompleted && in.Elapsed < in.Target {
		left := in.Target - in.Elapsed
		out = append(out, Item{
			Kind:          ItemLeftover,
			Start:         in.Elapsed,
			Duration:      left,
			StartRel:      ratio(in.Elapsed, effective),
			DurationRel:   ratio(left, effective),
			HeightPercent: ratio(left, effective) * 100,
		})
	}

	return out
}

func ratio(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
