package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peony/internal/booking"
	"peony/internal/cart"
	"peony/internal/catalog"
	"peony/internal/domain"
	"peony/internal/models"
	"peony/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSlotNotOpen       = errors.New("slot is not open for booking")
	ErrUnknownService    = errors.New("unknown service item")
	ErrServiceRestricted = errors.New("service not offered")
)

// BookingService drives one client's booking session: cart mutations,
// contact and selection fields, and final assembly. All operations are
// synchronous; the only asynchronous input is the override feed consumed
// by the availability service.
type BookingService struct {
	sessions     domain.SessionRepository
	availability *AvailabilityService
	catalog      *catalog.Catalog
	validator    *booking.Validator
	logger       *zerolog.Logger
}

func NewBookingService(
	sessions domain.SessionRepository,
	availability *AvailabilityService,
	cat *catalog.Catalog,
	validator *booking.Validator,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		sessions:     sessions,
		availability: availability,
		catalog:      cat,
		validator:    validator,
		logger:       logger,
	}
}

// StartSession issues an opaque session credential and an empty cart.
func (s *BookingService) StartSession(ctx context.Context) (*models.Session, error) {
	session := &models.Session{
		ID:      uuid.NewString(),
		Removal: models.RemovalChoice{},
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *BookingService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ToggleSlot adds or removes the (date, time) pair. New additions must be
// open per the current snapshot; an already-selected pair may always be
// toggled off, and stale entries are never re-validated.
func (s *BookingService) ToggleSlot(ctx context.Context, sessionID string, date models.DateKey, slot string) (*models.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c := cart.New(session.Entries)
	if !c.Contains(date, slot) {
		res, err := s.availability.ResolveDate(date)
		if err != nil {
			// Out-of-season fails closed: nothing to book there.
			return nil, fmt.Errorf("%w: %s", ErrSlotNotOpen, date)
		}
		open := false
		for _, t := range res.OpenTimes {
			if t == slot {
				open = true
				break
			}
		}
		if !open {
			return nil, fmt.Errorf("%w: %s %s", ErrSlotNotOpen, date, slot)
		}
	}

	c.Toggle(date, slot)
	session.Entries = c.Entries()
	session.ActiveDate = date

	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// RemoveSlot deletes the entry at index in the sorted view.
func (s *BookingService) RemoveSlot(ctx context.Context, sessionID string, index int) (*models.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c := cart.New(session.Entries)
	c.Remove(index)
	session.Entries = c.Entries()

	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// SetContact stores the name and phone fields. Format problems surface at
// assembly, not here, so clients can save partial input.
func (s *BookingService) SetContact(ctx context.Context, sessionID, name, phone string) (*models.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Name = name
	session.Phone = phone
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// SetRemoval stores the removal choice. Picking None or Extension clears
// any previously chosen detail.
func (s *BookingService) SetRemoval(ctx context.Context, sessionID string, choice models.RemovalChoice) (*models.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if choice.Type != models.RemovalNeeded {
		choice.Detail = ""
	}
	session.Removal = choice
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// SetService stores the service selection after checking it exists and is
// allowed on the session's active date.
func (s *BookingService) SetService(ctx context.Context, sessionID, serviceID string) (*models.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	item, ok := s.catalog.Item(serviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
	}
	if tier := s.activeTier(session); !s.catalog.AllowedOn(item, tier) {
		return nil, fmt.Errorf("%w on %s dates: %s", ErrServiceRestricted, tier, serviceID)
	}

	session.ServiceID = serviceID
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Assemble runs the full validation pass and renders the confirmation text.
// Field errors are returned as values; only infrastructure failures are errors.
func (s *BookingService) Assemble(ctx context.Context, sessionID string) (string, []booking.FieldError, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}

	text, fieldErrs := s.validator.Assemble(booking.Input{
		Name:       session.Name,
		Phone:      session.Phone,
		Entries:    session.Entries,
		Removal:    session.Removal,
		ServiceID:  session.ServiceID,
		ActiveTier: s.activeTier(session),
	})
	return text, fieldErrs, nil
}

// ClearSession drops the cart and form state, ending the booking session.
func (s *BookingService) ClearSession(ctx context.Context, sessionID string) error {
	return s.sessions.ClearSession(ctx, sessionID)
}

// CheckRateLimit guards mutating endpoints per session.
func (s *BookingService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return s.sessions.CheckRateLimit(ctx, key, limit, window)
}

func (s *BookingService) activeTier(session *models.Session) models.Tier {
	if session.ActiveDate == "" {
		return models.TierBookable
	}
	tier, err := s.availability.Classify(session.ActiveDate)
	if err != nil {
		// Fail closed: an out-of-season active date gets no special
		// treatment and the cart rules apply in full.
		if !errors.Is(err, schedule.ErrOutOfSeason) {
			s.logger.Error().Err(err).Str("date", session.ActiveDate.String()).Msg("classify active date")
		}
		return models.TierBookable
	}
	return tier
}
