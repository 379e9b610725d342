// Package randid generates short random identifiers.
package randid

import "math/rand/v2"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate creates a random lowercase alphanumeric ID of the given length.
func Generate(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
