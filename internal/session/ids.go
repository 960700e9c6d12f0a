package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewID returns a fresh session identifier. 32 characters over a 63-symbol
// alphabet give just under 192 bits of entropy.
func NewID() string {
	return randString(32)
}

func randString(n int) string {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

	ret := make([]byte, n)
	for i := range n {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			// A session ID from a broken randomness source is guessable.
			panic(fmt.Sprintf("session id randomness unavailable: %v", err))
		}
		ret[i] = letters[num.Int64()]
	}

	return string(ret)
}
