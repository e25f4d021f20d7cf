package ids

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 9

const base36 = 36

// Random creates a lowercase base-36 ID of the given length from a random UUID.
func Random(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("id length must be positive, got %d", length)
	}
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("read random uuid: %w", err)
	}
	encoded := new(big.Int).SetBytes(u[:]).Text(base36)
	if len(encoded) < length {
		encoded = strings.Repeat("0", length-len(encoded)) + encoded
	}
	return encoded[:length], nil
}

// Generator produces random IDs of a fixed length.
type Generator struct {
	Length int
}

// NewID returns a fresh random ID.
func (g Generator) NewID() (string, error) {
	length := g.Length
	if length == 0 {
		length = DefaultLength
	}
	return Random(length)
}
