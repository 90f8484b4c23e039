package digipin

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrLatitudeOutOfRange  = errors.New("latitude out of range")
	ErrLongitudeOutOfRange = errors.New("longitude out of range")
	ErrInvalidLength       = errors.New("invalid length")
	ErrInvalidCharacter    = errors.New("invalid character")
)

// LatitudeOutOfRangeError is returned by the encoder when the latitude falls
// outside Region.
type LatitudeOutOfRangeError struct {
	Value float64
}

func (e *LatitudeOutOfRangeError) Error() string {
	return fmt.Sprintf("latitude %v is out of range (%v to %v)", e.Value, Region.MinLat, Region.MaxLat)
}

func (e *LatitudeOutOfRangeError) Is(target error) bool { return target == ErrLatitudeOutOfRange }

// LongitudeOutOfRangeError is returned by the encoder when the longitude falls
// outside Region.
type LongitudeOutOfRangeError struct {
	Value float64
}

func (e *LongitudeOutOfRangeError) Error() string {
	return fmt.Sprintf("longitude %v is out of range (%v to %v)", e.Value, Region.MinLon, Region.MaxLon)
}

func (e *LongitudeOutOfRangeError) Is(target error) bool { return target == ErrLongitudeOutOfRange }

// InvalidLengthError reports the symbol count of a code, hyphens excluded.
type InvalidLengthError struct {
	Length int
	// Prefix is set when the input was parsed as a partial code.
	Prefix bool
}

func (e *InvalidLengthError) Error() string {
	if e.Prefix {
		return fmt.Sprintf("invalid DIGIPIN prefix length: %d (expected 1 to %d)", e.Length, CodeLength)
	}
	return fmt.Sprintf("invalid DIGIPIN length: %d (expected %d)", e.Length, CodeLength)
}

func (e *InvalidLengthError) Is(target error) bool { return target == ErrInvalidLength }

// InvalidCharacterError reports the first rune that is not a DIGIPIN symbol.
// Position is the index of the rune among the non-hyphen runes of the input,
// or -1 when the rune was checked on its own.
type InvalidCharacterError struct {
	Char     rune
	Position int
}

func (e *InvalidCharacterError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("invalid character %q in DIGIPIN", e.Char)
	}
	return fmt.Sprintf("invalid character %q at position %d in DIGIPIN", e.Char, e.Position)
}

func (e *InvalidCharacterError) Is(target error) bool { return target == ErrInvalidCharacter }
