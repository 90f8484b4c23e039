package digipin

// Decode returns the center of the cell named by text.
//
// Hyphens are ignored wherever they appear. After removing them the input must
// hold exactly CodeLength symbols, otherwise an *InvalidLengthError is
// returned; the first non-symbol rune, scanning left to right, yields an
// *InvalidCharacterError. Lowercase symbols are accepted.
func Decode(text string) (Coordinate, error) {
	code, err := Parse(text)
	if err != nil {
		return Coordinate{}, err
	}
	return code.Center(), nil
}

// DecodeBounds returns the full cell named by text instead of its center.
func DecodeBounds(text string) (Bounds, error) {
	code, err := Parse(text)
	if err != nil {
		return Bounds{}, err
	}
	return code.Bounds(), nil
}

// Parse validates text and returns the canonical Code.
func Parse(text string) (Code, error) {
	var code Code
	if _, err := parseSymbols(text, code[:], CodeLength, CodeLength); err != nil {
		return Code{}, err
	}
	return code, nil
}

// ParsePrefix validates a partial code of 1 to CodeLength symbols and returns
// it in compact uppercase form. A prefix names every cell nested under it.
func ParsePrefix(text string) (string, error) {
	var buf [CodeLength]byte
	n, err := parseSymbols(text, buf[:], 1, CodeLength)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// PrefixBounds returns the cell named by a partial code.
func PrefixBounds(text string) (Bounds, error) {
	prefix, err := ParsePrefix(text)
	if err != nil {
		return Bounds{}, err
	}
	return prefixBounds([]byte(prefix)), nil
}

// parseSymbols strips hyphens, checks the symbol count against [lo, hi] and
// writes the canonical symbols into dst. The length is checked before any
// character so that a short or long input always reports its length.
func parseSymbols(text string, dst []byte, lo, hi int) (int, error) {
	n := 0
	for _, r := range text {
		if r != '-' {
			n++
		}
	}
	if n < lo || n > hi {
		return 0, &InvalidLengthError{Length: n, Prefix: lo != hi}
	}

	i := 0
	for _, r := range text {
		if r == '-' {
			continue
		}
		row, col, err := PositionFor(r)
		if err != nil {
			return 0, &InvalidCharacterError{Char: r, Position: i}
		}
		dst[i] = symbols[row][col]
		i++
	}
	return i, nil
}
