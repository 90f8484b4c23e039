package digipin

// GridSize is the number of bands each axis is split into per level.
const GridSize = 4

var symbols = [GridSize][GridSize]byte{
	{'F', 'C', '9', '8'},
	{'J', '3', '2', '7'},
	{'K', '4', '5', '6'},
	{'L', 'M', 'P', 'T'},
}

// positions maps an ASCII byte to row*GridSize+col, or -1 when the byte is not
// a symbol. Lowercase letters resolve like their uppercase form.
var positions = func() [128]int8 {
	var p [128]int8
	for i := range p {
		p[i] = -1
	}
	for row := range symbols {
		for col, s := range symbols[row] {
			if p[s] != -1 {
				panic("digipin: alphabet has a repeating symbol")
			}
			p[s] = int8(row*GridSize + col)
			if s >= 'A' && s <= 'Z' {
				p[s+'a'-'A'] = int8(row*GridSize + col)
			}
		}
	}
	return p
}()

// SymbolFor returns the symbol labelling the cell at (row, col). It panics if
// row or col is outside [0, 3].
func SymbolFor(row, col int) byte {
	return symbols[row][col]
}

// PositionFor returns the grid position of a symbol. Lookup is
// case-insensitive.
func PositionFor(r rune) (row, col int, err error) {
	if r < 0 || r >= rune(len(positions)) || positions[r] < 0 {
		return 0, 0, &InvalidCharacterError{Char: r, Position: -1}
	}
	p := int(positions[r])
	return p / GridSize, p % GridSize, nil
}

// IsSymbol reports whether r is part of the alphabet, in either case.
func IsSymbol(r rune) bool {
	return r >= 0 && r < rune(len(positions)) && positions[r] >= 0
}
