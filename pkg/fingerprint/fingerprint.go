// Package fingerprint derives a stable browser fingerprint from request
// headers. Sessions are bound to the fingerprint of the browser that opened
// them, so a session cookie replayed from a different client resolves to
// nothing.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
)

var headerKeys = []string{"user-agent", "accept"}

func FromHTTPRequest(r *http.Request) (string, error) {
	if r == nil {
		return "", errors.New("http request is nil")
	}

	h := sha256.New()

	for _, key := range headerKeys {
		h.Write([]byte(r.Header.Get(key)))
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
