// Package redapi exposes Santiago de Chile's Red public-transit arrival and
// route data through a REST interface, wrapping the provider's unstable
// endpoints behind validation, normalization and rate limiting.
package redapi

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a caller-supplied identifier that fails the format
// rules. Always client-fault; maps to HTTP 400 and is never retried.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

var (
	stopCodeRe    = regexp.MustCompile(`^[A-Za-z0-9]{2,10}$`)
	serviceCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,10}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags; these are constants.
	_ = v.RegisterValidation("stopcode", func(fl validator.FieldLevel) bool {
		return stopCodeRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("servicecode", func(fl validator.FieldLevel) bool {
		return serviceCodeRe.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStopCode enforces the stop code format: 2-10 alphanumeric chars.
func ValidateStopCode(code string) error {
	if err := validate.Var(code, "required,stopcode"); err != nil {
		return &ValidationError{Msg: "stop code must be 2-10 alphanumeric characters"}
	}
	return nil
}

// ValidateServiceCode enforces the service code format: 1-10 chars from
// alphanumerics, hyphen and underscore.
func ValidateServiceCode(code string) error {
	if err := validate.Var(code, "required,servicecode"); err != nil {
		return &ValidationError{Msg: "service code must be 1-10 characters (letters, digits, - or _)"}
	}
	return nil
}

// clampInt parses a positive integer query value, applying a default and cap.
func clampInt(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
		if n > max {
			return max
		}
	}
	if n == 0 {
		return def
	}
	return n
}
