package models

// CartEntry is one selected (date, time) pair in a client's cart.
type CartEntry struct {
	Date DateKey `json:"date"`
	Time string  `json:"time"`
}

// Less orders entries by date ascending, then time-of-day ascending.
// Time labels are zero-padded HH:MM so string order is chronological.
func (e CartEntry) Less(other CartEntry) bool {
	if e.Date != other.Date {
		return e.Date < other.Date
	}
	return e.Time < other.Time
}

// RemovalType is the top-level gel-removal choice.
type RemovalType string

const (
	RemovalNone      RemovalType = "none"
	RemovalNeeded    RemovalType = "needed"
	RemovalExtension RemovalType = "extension"
)

// RemovalDetail narrows RemovalNeeded down to where the previous set was done.
type RemovalDetail string

const (
	RemovalDetailOtherSalon RemovalDetail = "other_salon"
	RemovalDetailThisSalon  RemovalDetail = "this_salon"
	RemovalDetailMemberFree RemovalDetail = "member_free"
)

// RemovalChoice is complete when the type is set and, for RemovalNeeded,
// a detail has been picked.
type RemovalChoice struct {
	Type   RemovalType   `json:"type"`
	Detail RemovalDetail `json:"detail,omitempty"`
}

func (c RemovalChoice) Complete() bool {
	switch c.Type {
	case RemovalNone, RemovalExtension:
		return true
	case RemovalNeeded:
		return c.Detail != ""
	}
	return false
}
