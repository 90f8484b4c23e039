package digipin

// Encode returns the DIGIPIN of a coordinate in its grouped form
// ("XXX-XXX-XXXX").
//
// The latitude is validated before the longitude, so a point outside Region on
// both axes reports a *LatitudeOutOfRangeError.
func Encode(latitude, longitude float64) (string, error) {
	code, err := EncodeCode(latitude, longitude)
	if err != nil {
		return "", err
	}
	return code.String(), nil
}

// EncodeCode is like Encode but returns the parsed Code.
func EncodeCode(latitude, longitude float64) (Code, error) {
	var code Code
	if !(latitude >= Region.MinLat && latitude <= Region.MaxLat) {
		return code, &LatitudeOutOfRangeError{Value: latitude}
	}
	if !(longitude >= Region.MinLon && longitude <= Region.MaxLon) {
		return code, &LongitudeOutOfRangeError{Value: longitude}
	}

	box := Grid
	for i := range code {
		var row, col int
		row, col, box = box.Subdivide(latitude, longitude)
		code[i] = symbols[row][col]
	}
	return code, nil
}
