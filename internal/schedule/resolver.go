package schedule

import (
	"errors"

	"peony/internal/models"
)

// Resolution is the availability answer for a single date.
type Resolution struct {
	Date      models.DateKey `json:"date"`
	Tier      models.Tier    `json:"tier"`
	OpenTimes []string       `json:"open_times"`
	// LastSlot flags scarcity: exactly one open time remains.
	LastSlot bool `json:"last_slot"`
	// FullyBooked distinguishes "explicitly emptied by the admin" from
	// "never configured"; both resolve to no open times.
	FullyBooked bool `json:"fully_booked"`
}

// Resolve merges the date's override record with the default template.
// It is idempotent and side-effect free; callers recompute it on every
// override snapshot, never cache the result.
//
// Precedence: non-bookable tiers return empty regardless of override data;
// an override record wins over the template; the template applies verbatim
// to any bookable date without a record.
func (s *Season) Resolve(date models.DateKey, overrides models.OverrideMap) (Resolution, error) {
	tier, err := s.Classify(date)
	if err != nil {
		if errors.Is(err, ErrOutOfSeason) {
			// Fail closed: out-of-season dates are simply not bookable.
			return Resolution{Date: date, OpenTimes: []string{}}, err
		}
		return Resolution{}, err
	}

	res := Resolution{Date: date, Tier: tier, OpenTimes: []string{}}
	if !tier.SelfServiceBookable() {
		return res, nil
	}

	if rec, ok := overrides[date]; ok && rec != nil {
		res.OpenTimes = rec.OpenTimes()
		res.FullyBooked = rec.IsFullyBooked
	} else {
		res.OpenTimes = s.Template()
	}

	res.LastSlot = len(res.OpenTimes) == 1
	return res, nil
}
