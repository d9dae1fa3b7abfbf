package schedule

import (
	"errors"
	"fmt"

	"peony/internal/config"
	"peony/internal/models"
)

// ErrOutOfSeason marks a date outside the configured booking window.
// Callers must fail closed and treat the date as non-bookable.
var ErrOutOfSeason = errors.New("date outside the booking season")

// rule is one entry of the order-sensitive classification table.
// The first matching rule wins.
type rule struct {
	name    string
	tier    models.Tier
	matches func(month, day int) bool
}

// Season evaluates the fixed date-tier rules for one configured window.
type Season struct {
	year        int
	months      map[int]bool
	releaseDate models.DateKey
	template    []string
	rules       []rule
}

// NewSeason compiles the config windows into an explicit precedence-ordered
// rule list: release day, normal line, blackout, restricted surcharge,
// surcharge only, then the bookable default. The release date is a narrow
// carve-out for the blackout window it falls inside.
func NewSeason(cfg config.SeasonConfig, slots config.SlotsConfig) (*Season, error) {
	months := make(map[int]bool, len(cfg.Months))
	for _, m := range cfg.Months {
		months[m] = true
	}

	s := &Season{
		year:     cfg.Year,
		months:   months,
		template: append([]string(nil), slots.Template...),
	}

	if cfg.ReleaseDate != "" {
		release, err := models.ParseDateKey(cfg.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("release date: %w", err)
		}
		s.releaseDate = release
		relYear, relMonth, relDay := release.Parts()
		if relYear != cfg.Year || !months[relMonth] {
			return nil, fmt.Errorf("release date %s is outside the season", release)
		}
		s.rules = append(s.rules, rule{
			name: "release day",
			tier: models.TierOpenBookingDay,
			matches: func(month, day int) bool {
				return month == relMonth && day == relDay
			},
		})
	}

	s.rules = append(s.rules,
		windowRule("normal line", models.TierNormalLine, cfg.NormalLine),
		windowRule("blackout", models.TierBlackout, cfg.Blackout),
		windowRule("restricted surcharge", models.TierRestrictedSurcharge, cfg.RestrictedSurcharge),
		windowRule("surcharge only", models.TierSurchargeOnly, cfg.SurchargeOnly),
	)

	return s, nil
}

func windowRule(name string, tier models.Tier, windows []config.DayWindow) rule {
	return rule{
		name: name,
		tier: tier,
		matches: func(month, day int) bool {
			for _, w := range windows {
				if w.Contains(month, day) {
					return true
				}
			}
			return false
		},
	}
}

// Classify maps a date to its tier. Pure and total over the season;
// out-of-season dates return ErrOutOfSeason.
func (s *Season) Classify(date models.DateKey) (models.Tier, error) {
	year, month, day := date.Parts()
	if year == 0 {
		return "", fmt.Errorf("classify %q: malformed date: %w", date, ErrOutOfSeason)
	}
	if year != s.year || !s.months[month] {
		return "", fmt.Errorf("classify %s: %w", date, ErrOutOfSeason)
	}

	for _, r := range s.rules {
		if r.matches(month, day) {
			return r.tier, nil
		}
	}
	return models.TierBookable, nil
}

// Template returns the default ordered slot labels.
func (s *Season) Template() []string {
	return append([]string(nil), s.template...)
}

// ReleaseDate returns the configured open-booking date, empty if none.
func (s *Season) ReleaseDate() models.DateKey { return s.releaseDate }

// Year returns the season year.
func (s *Season) Year() int { return s.year }

// Dates enumerates every date of the season in ascending order.
func (s *Season) Dates() []models.DateKey {
	var out []models.DateKey
	for month := 1; month <= 12; month++ {
		if !s.months[month] {
			continue
		}
		for day := 1; day <= 31; day++ {
			date := models.NewDateKey(s.year, month, day)
			if y, m, d := date.Parts(); y != s.year || m != month || d != day {
				continue // day does not exist in this month
			}
			out = append(out, date)
		}
	}
	return out
}
