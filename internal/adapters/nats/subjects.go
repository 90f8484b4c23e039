package natsadapter

import (
	"strings"

	"github.com/samirrijal/digipin/pkg/digipin"
)

// Subject roots.
const (
	SubjectPlaceRegistered = "digipin.place.registered"
	SubjectPlaceDeleted    = "digipin.place.deleted"
	subjectFixRoot         = "digipin.fix"
	subjectRawRoot         = "digipin.raw"
)

// FixSubject maps a DIGIPIN to its subject, one token per symbol:
// 39J-438-TJC7 becomes digipin.fix.3.9.J.4.3.8.T.J.C.7.
func FixSubject(code string) (string, error) {
	c, err := digipin.Parse(code)
	if err != nil {
		return "", err
	}
	return subjectFixRoot + "." + tokens(c.Compact()), nil
}

// CellSubject returns the subscription subject matching every fix inside the
// cell named by prefix. A full ten-symbol prefix matches only that cell.
func CellSubject(prefix string) (string, error) {
	p, err := digipin.ParsePrefix(prefix)
	if err != nil {
		return "", err
	}
	subject := subjectFixRoot + "." + tokens(p)
	if len(p) < digipin.CodeLength {
		subject += ".>"
	}
	return subject, nil
}

// RawFixSubject is where devices publish fixes before annotation.
func RawFixSubject(deviceID string) string {
	return subjectRawRoot + "." + sanitizeToken(deviceID)
}

func tokens(symbols string) string {
	var b strings.Builder
	b.Grow(len(symbols) * 2)
	for i := 0; i < len(symbols); i++ {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteByte(symbols[i])
	}
	return b.String()
}

var tokenReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

func sanitizeToken(s string) string {
	if s == "" {
		return "_"
	}
	return tokenReplacer.Replace(s)
}
