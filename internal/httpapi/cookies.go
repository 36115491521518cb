package httpapi

import (
	"net/http"
	"time"

	"reeflog.org/internal/auth"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// CookiePolicy controls the attributes of the session cookies. SameSite=None
// is required for cross-site frontends, and that combination only works over
// HTTPS, so Secure should be true anywhere but local development.
type CookiePolicy struct {
	Secure bool
}

func (p CookiePolicy) attach(w http.ResponseWriter, pair auth.TokenPair, now time.Time) {
	http.SetCookie(w, p.sessionCookie(accessCookie, pair.AccessToken, pair.AccessExpiresAt, now))
	http.SetCookie(w, p.sessionCookie(refreshCookie, pair.RefreshToken, pair.RefreshExpiresAt, now))
}

func (p CookiePolicy) clear(w http.ResponseWriter) {
	for _, name := range []string{accessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   p.Secure,
			SameSite: http.SameSiteNoneMode,
		})
	}
}

func (p CookiePolicy) sessionCookie(name, value string, expires, now time.Time) *http.Cookie {
	maxAge := int(expires.Sub(now).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}
