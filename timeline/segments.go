package timeline

import "fmt"

// DurationError reports a recording whose reported duration ends before its
// last keyword occurrence, which would yield a negative-length segment.
type DurationError struct {
	LastStart float64
	Total     float64
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("recording duration %.2fs precedes last keyword at %.2fs", e.Total, e.LastStart)
}

// DeriveSegments turns an ordered list of keyword occurrences into a
// gap-free segment timeline spanning [0, totalDuration).
//
// The first occurrence is forced to start at zero: the recording is assumed
// to open on its first topic. Each segment ends where the next occurrence
// starts; the last ends at totalDuration. Repeated mentions of the same
// keyword stay separate segments.
//
// An empty event list means no attributable content and returns an empty
// timeline, not an error.
func DeriveSegments(events []KeywordEvent, totalDuration float64) ([]Segment, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if last := events[len(events)-1].Start; totalDuration < last {
		return nil, &DurationError{LastStart: last, Total: totalDuration}
	}

	segs := make([]Segment, 0, len(events))
	for i, ev := range events {
		start := ev.Start
		if i == 0 {
			start = 0
		}
		end := totalDuration
		if i+1 < len(events) {
			end = events[i+1].Start
		}
		if end <= start {
			// coincident timestamps would yield a zero-length segment
			continue
		}
		segs = append(segs, Segment{Keyword: ev.Keyword, Start: start, End: end})
	}
	return segs, nil
}
