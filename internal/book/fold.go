package book

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the caseless form of s used for all title and search
// comparisons. Input is NFC-normalized first so that precomposed and
// decomposed accents compare equal.
//
// A new Caser is built per call; cases.Caser is not safe for concurrent use.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
