package domain

import (
	"errors"

	"github.com/samirrijal/digipin/pkg/digipin"
)

// Domain errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
)

// ErrorCode returns the stable machine-readable code for err as exposed by the
// API surfaces, or "" when err is not a known domain or codec error.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, digipin.ErrLatitudeOutOfRange):
		return "latitude_out_of_range"
	case errors.Is(err, digipin.ErrLongitudeOutOfRange):
		return "longitude_out_of_range"
	case errors.Is(err, digipin.ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, digipin.ErrInvalidCharacter):
		return "invalid_character"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "bad_request"
	case errors.Is(err, ErrAlreadyExists):
		return "conflict"
	default:
		return ""
	}
}

// IsClientError reports whether err was caused by bad caller input.
func IsClientError(err error) bool {
	switch ErrorCode(err) {
	case "", "not_found", "conflict":
		return false
	default:
		return true
	}
}
