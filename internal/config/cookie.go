package config

import "net/http"

type CookieSameSite string

const (
	CookieSameSiteNone   CookieSameSite = "none"
	CookieSameSiteLax    CookieSameSite = "lax"
	CookieSameSiteStrict CookieSameSite = "strict"
)

// CookieTemplate describes a cookie the portal issues; the value is filled
// in per session.
type CookieTemplate struct {
	Name     string         `yaml:"name" envDefault:"__Host-Http-Portal-Session"`
	MaxAge   int            `yaml:"maxAge" envDefault:"604800"`
	Path     string         `yaml:"path" envDefault:"/"`
	Domain   string         `yaml:"domain"`
	Secure   bool           `yaml:"secure" envDefault:"true"`
	HTTPOnly bool           `yaml:"httpOnly" envDefault:"true"`
	SameSite CookieSameSite `yaml:"sameSite" envDefault:"strict"`
}

func (ct *CookieTemplate) ToCookie(value string) *http.Cookie {
	var sameSite http.SameSite
	switch ct.SameSite {
	case CookieSameSiteNone:
		sameSite = http.SameSiteNoneMode
	case CookieSameSiteLax:
		sameSite = http.SameSiteLaxMode
	case CookieSameSiteStrict:
		sameSite = http.SameSiteStrictMode
	}

	return &http.Cookie{
		Name:     ct.Name,
		Value:    value,
		MaxAge:   ct.MaxAge,
		Path:     ct.Path,
		Domain:   ct.Domain,
		Secure:   ct.Secure,
		HttpOnly: ct.HTTPOnly,
		SameSite: sameSite,
	}
}

// ToExpiredCookie returns a cookie that instructs the browser to drop the
// entry. Used on logout and on sessions the portal no longer recognises.
func (ct *CookieTemplate) ToExpiredCookie() *http.Cookie {
	cookie := ct.ToCookie("")
	cookie.MaxAge = -1

	return cookie
}
