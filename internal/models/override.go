package models

import "time"

// Slot is one time label of a date with its admin-controlled availability.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// OverrideRecord is an administrator-authored statement of which slots are
// open on one date. It supersedes the default template for that date.
// Version is a monotonic counter used to reject stale concurrent writes.
type OverrideRecord struct {
	Date          DateKey   `json:"date"`
	Slots         []Slot    `json:"slots"`
	IsFullyBooked bool      `json:"is_fully_booked"`
	LastUpdated   time.Time `json:"last_updated"`
	Version       int64     `json:"version"`
}

// OpenTimes returns the available subsequence in record order.
func (r *OverrideRecord) OpenTimes() []string {
	out := make([]string, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Available {
			out = append(out, s.Time)
		}
	}
	return out
}

func (r *OverrideRecord) Clone() *OverrideRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Slots = append([]Slot(nil), r.Slots...)
	return &cp
}

// OverrideMap is the client-side cache of every override record, keyed by
// date. It is replaced wholesale on each change-feed delivery, never patched.
type OverrideMap map[DateKey]*OverrideRecord

func (m OverrideMap) Clone() OverrideMap {
	if m == nil {
		return nil
	}
	out := make(OverrideMap, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}
