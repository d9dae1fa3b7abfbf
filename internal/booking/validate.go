// Package booking validates a finished selection and assembles the
// confirmation text, the system's sole commit artifact. Assembly never
// reserves anything server-side; success only means the message is
// well-formed and ready for the external channel.
package booking

import (
	"fmt"
	"regexp"

	"peony/internal/catalog"
	"peony/internal/config"
	"peony/internal/metrics"
	"peony/internal/models"
)

// FieldErrorCode identifies one validation failure. Field errors are values,
// not Go errors; they are always recoverable user input problems.
type FieldErrorCode string

const (
	CodeInvalidName       FieldErrorCode = "invalid_name"
	CodeInvalidPhone      FieldErrorCode = "invalid_phone"
	CodeMissingSlots      FieldErrorCode = "missing_slots"
	CodeInsufficientSlots FieldErrorCode = "insufficient_slots"
	CodeMissingRemoval    FieldErrorCode = "missing_removal"
	CodeMissingService    FieldErrorCode = "missing_service"
	CodeServiceNotAllowed FieldErrorCode = "service_not_allowed"
)

type FieldError struct {
	Code    FieldErrorCode `json:"code"`
	Message string         `json:"message"`
}

// Input is everything assembly needs. ActiveTier is the tier of the date
// the client currently has open; it decides whether an empty cart is legal
// and whether the restricted service list applies.
type Input struct {
	Name       string
	Phone      string
	Entries    []models.CartEntry
	Removal    models.RemovalChoice
	ServiceID  string
	ActiveTier models.Tier
}

// Validator runs the all-or-nothing check pass over a booking Input.
type Validator struct {
	namePattern  *regexp.Regexp
	phonePattern *regexp.Regexp
	minEntries   int
	catalog      *catalog.Catalog
}

func NewValidator(cfg config.BookingConfig, cat *catalog.Catalog) (*Validator, error) {
	namePattern, err := regexp.Compile(cfg.NamePattern)
	if err != nil {
		return nil, fmt.Errorf("compile name pattern: %w", err)
	}
	phonePattern, err := regexp.Compile(cfg.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("compile phone pattern: %w", err)
	}
	return &Validator{
		namePattern:  namePattern,
		phonePattern: phonePattern,
		minEntries:   cfg.MinEntries,
		catalog:      cat,
	}, nil
}

// Validate accumulates every failure instead of short-circuiting so the
// caller can show the complete list at once.
func (v *Validator) Validate(in Input) []FieldError {
	var errs []FieldError
	add := func(code FieldErrorCode, message string) {
		errs = append(errs, FieldError{Code: code, Message: message})
		metrics.IncAssembleFailure(string(code))
	}

	if !v.namePattern.MatchString(in.Name) {
		add(CodeInvalidName, msgInvalidName)
	}
	if !v.phonePattern.MatchString(in.Phone) {
		add(CodeInvalidPhone, msgInvalidPhone)
	}

	// Dates handled by the external channel may submit without slots.
	if !in.ActiveTier.ExternalOnly() {
		switch {
		case len(in.Entries) == 0:
			add(CodeMissingSlots, msgMissingSlots)
		case len(in.Entries) < v.minEntries:
			add(CodeInsufficientSlots, fmt.Sprintf(msgInsufficientSlots, v.minEntries))
		}
	}

	if !in.Removal.Complete() {
		add(CodeMissingRemoval, msgMissingRemoval)
	}

	if in.ServiceID == "" {
		add(CodeMissingService, msgMissingService)
	} else if item, ok := v.catalog.Item(in.ServiceID); !ok {
		add(CodeMissingService, msgMissingService)
	} else if !v.catalog.AllowedOn(item, in.ActiveTier) {
		add(CodeServiceNotAllowed, msgServiceNotAllowed)
	}

	return errs
}

// Assemble validates and, on a clean pass, renders the confirmation text.
func (v *Validator) Assemble(in Input) (string, []FieldError) {
	if errs := v.Validate(in); len(errs) > 0 {
		return "", errs
	}

	item, _ := v.catalog.Item(in.ServiceID)
	return renderConfirmation(in, item, v.catalog), nil
}
