package tickets

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// pnrAlphabet omits the visually confusable symbols 0/O, 1/I/L so codes
// survive being read over the phone or scrawled on a boarding pass.
const pnrAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const (
	pnrLength      = 6
	pnrMaxAttempts = 5
)

// ErrPNRExhausted is returned when generation keeps colliding with existing
// codes. At this alphabet size that is astronomically unlikely, so it is
// treated as fatal rather than retried forever.
var ErrPNRExhausted = fmt.Errorf("failed to generate a unique PNR after %d attempts", pnrMaxAttempts)

// PNRStore is the narrow lookup the generator needs against existing codes.
type PNRStore interface {
	PNRExists(ctx context.Context, pnr string) (bool, error)
}

// GeneratePNR produces a fresh 6-character booking code, retrying on
// collisions up to a fixed bound.
func GeneratePNR(ctx context.Context, store PNRStore) (string, error) {
	for attempt := 0; attempt < pnrMaxAttempts; attempt++ {
		code, err := randomPNR()
		if err != nil {
			return "", fmt.Errorf("pnr generation failed: %w", err)
		}

		exists, err := store.PNRExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("pnr uniqueness check failed: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrPNRExhausted
}

func randomPNR() (string, error) {
	code := make([]byte, pnrLength)
	max := big.NewInt(int64(len(pnrAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = pnrAlphabet[n.Int64()]
	}
	return string(code), nil
}
