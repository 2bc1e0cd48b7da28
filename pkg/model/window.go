package model

import "time"

// TimeWindow is a half-open interval [Start, End). Instants are expected at
// whole-minute granularity; sub-minute precision is rejected by the rule set.
type TimeWindow struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Minutes returns the window length in whole minutes.
func (w TimeWindow) Minutes() int {
	return int(w.Duration() / time.Minute)
}

// Overlaps reports whether two half-open windows intersect.
// Touching endpoints ([9:00,10:00) and [10:00,11:00)) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

// Equal compares both endpoints at instant precision.
func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.Start.Equal(other.Start) && w.End.Equal(other.End)
}
