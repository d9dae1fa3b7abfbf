package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"peony/internal/catalog"
	"peony/internal/channel"
	"peony/internal/database"
	"peony/internal/models"
	"peony/internal/schedule"
	"peony/internal/service"

	"github.com/rs/zerolog"
)

const sessionHeader = "x-session-id"

// Handlers implements the JSON endpoints. Session identity travels in the
// x-session-id header; availability reads are anonymous.
type Handlers struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService
	catalog      *catalog.Catalog
	channel      *channel.Channel
	logger       *zerolog.Logger
}

func NewHandlers(
	availability *service.AvailabilityService,
	bookings *service.BookingService,
	cat *catalog.Catalog,
	ch *channel.Channel,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		availability: availability,
		bookings:     bookings,
		catalog:      cat,
		channel:      ch,
		logger:       logger,
	}
}

// Availability handles GET /api/v1/availability/{date}.
func (h *Handlers) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/availability/")
	date, err := models.ParseDateKey(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	res, err := h.availability.ResolveDate(date)
	if err != nil {
		if errors.Is(err, schedule.ErrOutOfSeason) {
			writeError(w, http.StatusNotFound, "date is outside the booking season")
			return
		}
		h.logger.Error().Err(err).Str("date", raw).Msg("resolve failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// AvailabilityBulk handles /api/v1/availability/bulk: a JSON date list on
// POST, or a comma-separated dates query parameter on GET.
func (h *Handlers) AvailabilityBulk(w http.ResponseWriter, r *http.Request) {
	var dates []string
	switch r.Method {
	case http.MethodGet:
		dates = splitCSV(r.URL.Query().Get("dates"))
	case http.MethodPost:
		var req struct {
			Dates []string `json:"dates"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		dates = req.Dates
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if len(dates) == 0 {
		writeError(w, http.StatusBadRequest, "dates must not be empty")
		return
	}

	out := make([]schedule.Resolution, 0, len(dates))
	for _, raw := range dates {
		date, err := models.ParseDateKey(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+raw)
			return
		}
		res, err := h.availability.ResolveDate(date)
		if err != nil && !errors.Is(err, schedule.ErrOutOfSeason) {
			h.logger.Error().Err(err).Str("date", raw).Msg("resolve failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		// Out-of-season dates come back with no tier and no open times.
		out = append(out, res)
	}

	writeJSON(w, http.StatusOK, map[string]any{"resolutions": out})
}

// Calendar handles GET /api/v1/calendar: every season date resolved.
func (h *Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": h.availability.SeasonCalendar()})
}

// Services handles GET /api/v1/services: the static menu and removal options.
func (h *Handlers) Services(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":      h.catalog.Categories(),
		"removal_options": h.catalog.RemovalOptions(),
		"extension_price": h.catalog.ExtensionPrice(),
	})
}

// CreateSession handles POST /api/v1/sessions.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := h.bookings.StartSession(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("session create failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Cart handles GET (read) and DELETE (clear) on /api/v1/cart.
func (h *Handlers) Cart(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing "+sessionHeader+" header")
		return
	}

	switch r.Method {
	case http.MethodGet:
		session, err := h.bookings.GetSession(r.Context(), sessionID)
		if err != nil {
			h.writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	case http.MethodDelete:
		if err := h.bookings.ClearSession(r.Context(), sessionID); err != nil {
			h.logger.Error().Err(err).Msg("session clear failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// CartToggle handles POST /api/v1/cart/toggle.
func (h *Handlers) CartToggle(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.mutableSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := models.ParseDateKey(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	session, err := h.bookings.ToggleSlot(r.Context(), sessionID, date, req.Time)
	if err != nil {
		if errors.Is(err, service.ErrSlotNotOpen) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CartRemove handles POST /api/v1/cart/remove.
func (h *Handlers) CartRemove(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.mutableSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.bookings.RemoveSlot(r.Context(), sessionID, req.Index)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CartContact handles POST /api/v1/cart/contact.
func (h *Handlers) CartContact(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.mutableSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.bookings.SetContact(r.Context(), sessionID, req.Name, req.Phone)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CartRemoval handles POST /api/v1/cart/removal.
func (h *Handlers) CartRemoval(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.mutableSession(w, r)
	if !ok {
		return
	}

	var req models.RemovalChoice
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.bookings.SetRemoval(r.Context(), sessionID, req)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CartService handles POST /api/v1/cart/service.
func (h *Handlers) CartService(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.mutableSession(w, r)
	if !ok {
		return
	}

	var req struct {
		ServiceID string `json:"service_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.bookings.SetService(r.Context(), sessionID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownService):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrServiceRestricted):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.writeSessionError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Assemble handles POST /api/v1/bookings/assemble. Field errors come back
// as 422 with the full list; a clean pass returns the confirmation text.
func (h *Handlers) Assemble(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.mutableSession(w, r)
	if !ok {
		return
	}

	text, fieldErrs, err := h.bookings.Assemble(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"confirmation": text})
}

// AdminOverride handles PUT /api/v1/admin/overrides/{date}: the write side
// of the sync channel. A stale version comes back as 409.
func (h *Handlers) AdminOverride(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/overrides/")
	date, err := models.ParseDateKey(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var req struct {
		Slots         []models.Slot `json:"slots"`
		IsFullyBooked bool          `json:"is_fully_booked"`
		Version       int64         `json:"version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.channel.Write(r.Context(), &models.OverrideRecord{
		Date:          date,
		Slots:         req.Slots,
		IsFullyBooked: req.IsFullyBooked,
		Version:       req.Version,
	})
	if err != nil {
		if errors.Is(err, database.ErrStaleWrite) {
			writeError(w, http.StatusConflict, "override was modified concurrently, reload and retry")
			return
		}
		h.logger.Error().Err(err).Str("date", raw).Msg("override write failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// mutableSession extracts the session header and applies the per-session
// rate limit shared by all mutating endpoints.
func (h *Handlers) mutableSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}

	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing "+sessionHeader+" header")
		return "", false
	}

	allowed, err := h.bookings.CheckRateLimit(r.Context(), sessionID, models.RateLimitRequests, models.RateLimitWindow*time.Second)
	if err != nil {
		h.logger.Warn().Err(err).Msg("rate limit check failed, allowing request")
		return sessionID, true
	}
	if !allowed {
		writeError(w, http.StatusTooManyRequests, "too many requests for this session")
		return "", false
	}
	return sessionID, true
}

func (h *Handlers) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found or expired")
		return
	}
	h.logger.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
