package session

import (
	"net/http"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/cookies"
)

/*
	The codec is the only piece of code that knows which cookie name a
	realm uses. Both directions are realm-scoped: encode always emits
	the realm's own name, and decode looks up that name only. A
	cookie under the other realm's name is invisible here, which is
	the leak-prevention guarantee the gateway relies on.

	The name table is immutable configuration captured at startup.
	Nothing mutates it per request.
*/

type codec struct {
	name      string
	domain    string
	secure    bool
	sameSite  http.SameSite
	maxAge    time.Duration
	secretKey []byte
}

func (c *codec) encode(w http.ResponseWriter, sessionID string) error {
	cookie := http.Cookie{
		Name:     c.name,
		Value:    sessionID,
		Domain:   c.domain,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	}

	return cookies.WriteSigned(w, cookie, c.secretKey)
}

// decode returns the session identifier carried under this realm's
// cookie name. Missing, unsigned, or tampered cookies all come back
// as absent; a bad cookie is never an error worth surfacing.
func (c *codec) decode(r *http.Request) (string, bool) {
	value, err := cookies.ReadSigned(r, c.name, c.secretKey)
	if err != nil || value == "" {
		return "", false
	}

	return value, true
}

func (c *codec) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Domain:   c.domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}
