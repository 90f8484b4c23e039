// Package digipin converts latitude/longitude pairs into 10-symbol DIGIPIN codes
// and back.
//
// A DIGIPIN names one cell of a 10-level quadtree-like grid. At every level the
// current box is split into 4×4 equal bands and the cell containing the point
// is labelled with one symbol from a fixed 16-symbol alphabet:
//
//	F C 9 8
//	J 3 2 7
//	K 4 5 6
//	L M P T
//
// Row 0 is the northern band of the box and column 0 the western band.
//
// Subdivision starts from Grid (2.5°–38.5°N, 63.5°–99.5°E). Encoding accepts
// only coordinates inside Region (6°–38°N, 68°–98°E). Decoding returns the
// center of the final cell, so a round trip is exact to within half a cell
// (roughly 2 m on each axis).
//
// Every function in this package is pure and safe for concurrent use.
package digipin
