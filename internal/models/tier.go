package models

// Tier is the booking-eligibility category of a single date. It is derived
// from the season rules on every lookup and never stored.
type Tier string

const (
	// TierNormalLine dates take bookings only through the external
	// messenger system; self-service slots are never offered.
	TierNormalLine Tier = "normal_line"
	// TierBlackout covers the holiday closure, nothing is bookable.
	TierBlackout Tier = "blackout"
	// TierRestrictedSurcharge dates carry the surcharge and refuse
	// plain/maintenance services.
	TierRestrictedSurcharge Tier = "restricted_surcharge"
	// TierSurchargeOnly dates carry the surcharge with no service limits.
	TierSurchargeOnly Tier = "surcharge_only"
	// TierOpenBookingDay is the single next-season release date; it sits
	// inside the blackout window but redirects clients instead of closing.
	TierOpenBookingDay Tier = "open_booking_day"
	// TierBookable is the default for in-season dates.
	TierBookable Tier = "bookable"
)

// SelfServiceBookable reports whether slots may be offered on this tier at all.
func (t Tier) SelfServiceBookable() bool {
	switch t {
	case TierNormalLine, TierBlackout, TierOpenBookingDay:
		return false
	}
	return true
}

// ExternalOnly reports whether the date redirects to the external booking
// channel, which relaxes the minimum-slot rule during validation.
func (t Tier) ExternalOnly() bool {
	return t == TierNormalLine || t == TierOpenBookingDay
}
