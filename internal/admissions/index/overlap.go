// Package index holds the committed windows of one resource and answers
// overlap queries. An OverlapIndex is not safe for concurrent use: every call
// happens while the caller holds that resource's serialization token.
package index

import (
	"sort"

	"roomly/pkg/model"
)

// OverlapIndex keeps windows sorted by start. Because committed windows never
// overlap, they are equally sorted by end, which makes the overlap query a
// single binary search. A sorted slice is plenty at the expected scale; the
// contract leaves room for an interval tree behind the same methods.
type OverlapIndex struct {
	windows []model.TimeWindow
}

func New() *OverlapIndex {
	return &OverlapIndex{}
}

// NewSeeded builds an index from an arbitrary set of committed windows.
func NewSeeded(windows []model.TimeWindow) *OverlapIndex {
	sorted := make([]model.TimeWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return &OverlapIndex{windows: sorted}
}

func (x *OverlapIndex) Len() int {
	return len(x.windows)
}

// HasOverlap reports whether the candidate intersects any committed window.
// Touching endpoints do not count as overlap.
func (x *OverlapIndex) HasOverlap(candidate model.TimeWindow) bool {
	// First committed window starting at or after candidate.End; it and
	// everything after it cannot overlap a half-open candidate.
	i := sort.Search(len(x.windows), func(i int) bool {
		return !x.windows[i].Start.Before(candidate.End)
	})
	if i == 0 {
		return false
	}
	// Windows before i start before candidate.End; the latest-starting one
	// has the latest end (committed windows are disjoint), so it decides.
	return x.windows[i-1].End.After(candidate.Start)
}

// Insert adds a committed window, keeping start order.
func (x *OverlapIndex) Insert(w model.TimeWindow) {
	i := sort.Search(len(x.windows), func(i int) bool {
		return x.windows[i].Start.After(w.Start)
	})
	x.windows = append(x.windows, model.TimeWindow{})
	copy(x.windows[i+1:], x.windows[i:])
	x.windows[i] = w
}

// Remove deletes the window with exactly matching endpoints. It compensates
// an Insert whose durable write failed; removing an absent window is a no-op.
func (x *OverlapIndex) Remove(w model.TimeWindow) {
	for i, existing := range x.windows {
		if existing.Equal(w) {
			x.windows = append(x.windows[:i], x.windows[i+1:]...)
			return
		}
	}
}

// Windows returns a copy of the committed windows in start order.
func (x *OverlapIndex) Windows() []model.TimeWindow {
	out := make([]model.TimeWindow, len(x.windows))
	copy(out, x.windows)
	return out
}
