// Package imageid generates the short public identifiers used as image
// primary keys and filename stems.
package imageid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet is the set of characters an identifier is drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Length is the number of characters in an identifier.
	Length = 10
)

// New returns a fresh identifier sampled uniformly from Alphabet using a
// cryptographically secure source. Uniqueness is not checked here; the
// store's primary key is the final guard.
func New() string {
	// Generate only fails for an empty alphabet or non-positive size.
	return gonanoid.MustGenerate(Alphabet, Length)
}

// Valid reports whether s has the shape of an identifier produced by New.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
