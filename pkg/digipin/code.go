package digipin

import "strings"

// CodeLength is the number of symbols in a DIGIPIN.
const CodeLength = 10

// Code is a parsed DIGIPIN. The zero value is not a valid code; obtain one from
// EncodeCode or Parse.
type Code [CodeLength]byte

// String returns the canonical grouped form, e.g. "39J-438-TJC7".
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(CodeLength + 2)
	for i, s := range c {
		if i == 3 || i == 6 {
			sb.WriteByte('-')
		}
		sb.WriteByte(s)
	}
	return sb.String()
}

// Compact returns the ten symbols without separators.
func (c Code) Compact() string {
	return string(c[:])
}

// Bounds replays the code from Grid and returns the final cell.
func (c Code) Bounds() Bounds {
	return prefixBounds(c[:])
}

// Center returns the midpoint of the code's cell.
func (c Code) Center() Coordinate {
	return c.Bounds().Center()
}

// MarshalText encodes the code in its grouped form.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts any form Parse accepts.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// prefixBounds narrows Grid once per symbol. Symbols must already be
// validated.
func prefixBounds(syms []byte) Bounds {
	box := Grid
	for _, s := range syms {
		p := positions[s]
		box = box.Cell(int(p)/GridSize, int(p)%GridSize)
	}
	return box
}
