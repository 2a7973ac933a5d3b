package session

import (
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/config"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Backend:       "memory",
		GCInterval:    0, // no sweep goroutines in tests
		Domain:        "",
		SecureCookies: false,
		SecretKey:     []byte("0123456789abcdef0123456789abcdef"),
		AdminPrefixes: []string{"/myadmin", "/admin-login", "/admin"},
		Public: config.RealmConfig{
			CookieName:         "user_sessionid",
			SameSite:           "lax",
			IdleExpiration:     1 * time.Hour,
			AbsoluteExpiration: 24 * time.Hour,
		},
		Admin: config.RealmConfig{
			CookieName:         "admin_sessionid",
			SameSite:           "strict",
			IdleExpiration:     30 * time.Minute,
			AbsoluteExpiration: 8 * time.Hour,
		},
	}
}
