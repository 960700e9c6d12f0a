package portal

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Flash is a one-shot notification that survives exactly one redirect, riding
// a short-lived cookie. The next page load pops and displays it.
type Flash struct {
	Kind    string
	Message string
}

const (
	flashCookieName = "portal-flash"
	flashMaxAge     = 60

	flashSuccess = "success"
	flashError   = "error"
)

func setFlash(w http.ResponseWriter, f Flash) {
	value := base64.RawURLEncoding.EncodeToString([]byte(f.Kind + ":" + f.Message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending notification and clears its cookie. A missing
// or garbled cookie pops as the zero Flash.
func popFlash(w http.ResponseWriter, r *http.Request) Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return Flash{}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   flashCookieName,
		Path:   "/",
		MaxAge: -1,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Flash{}
	}

	kind, message, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Flash{}
	}

	return Flash{Kind: kind, Message: message}
}
