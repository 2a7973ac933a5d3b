package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/config"
	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
)

// Manager owns session resolution and persistence for one realm: its
// store, its cookie codec, and its expiry policy. The gateway holds
// one Manager per realm and never mixes them.
type Manager struct {
	realm              realm.Realm
	store              Store
	codec              *codec
	idleExpiration     time.Duration
	absoluteExpiration time.Duration
}

func NewManager(rlm realm.Realm, store Store, cfg config.SessionConfig) *Manager {
	rc := cfg.Public
	if rlm == realm.Admin {
		rc = cfg.Admin
	}

	sameSite := http.SameSiteLaxMode
	if rc.SameSite == "strict" {
		sameSite = http.SameSiteStrictMode
	}

	m := &Manager{
		realm: rlm,
		store: store,
		codec: &codec{
			name:      rc.CookieName,
			domain:    cfg.Domain,
			secure:    cfg.SecureCookies,
			sameSite:  sameSite,
			maxAge:    rc.IdleExpiration,
			secretKey: cfg.SecretKey,
		},
		idleExpiration:     rc.IdleExpiration,
		absoluteExpiration: rc.AbsoluteExpiration,
	}

	if cfg.GCInterval > 0 {
		go m.gcLoop(cfg.GCInterval)
	}

	return m
}

func (m *Manager) Realm() realm.Realm {
	return m.realm
}

func (m *Manager) gcLoop(d time.Duration) {
	ticker := time.NewTicker(d)

	for range ticker.C {
		if err := m.store.gc(context.Background(), m.idleExpiration, m.absoluteExpiration); err != nil {
			slog.Error("Session sweep failed",
				slog.String("realm", m.realm.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// validate applies lazy expiry: an expired record is destroyed on
// discovery and reported as unusable, exactly as if it were absent.
func (m *Manager) validate(ctx context.Context, session *Session) bool {
	if time.Since(session.createdAt) > m.absoluteExpiration ||
		time.Since(session.lastActivityAt) > m.idleExpiration {

		if err := m.store.destroy(ctx, session.id); err != nil {
			slog.Error("Failed to destroy expired session", slog.String("error", err.Error()))
		}

		return false
	}

	return true
}

type sessionContextKey struct{}

var sessionKey = sessionContextKey{}

// start resolves the request's session: decode this realm's cookie,
// load from this realm's store, fall back to a fresh anonymous
// session on absence, expiry, or malformed input. Identity is
// established here once and is immutable for the rest of the request.
// Only store unavailability is returned as an error.
func (m *Manager) start(r *http.Request) (*Session, *http.Request, error) {
	var session *Session

	if id, ok := m.codec.decode(r); ok {
		loaded, err := m.store.read(r.Context(), id)
		switch {
		case err == nil:
			if m.validate(r.Context(), loaded) {
				session = loaded
			}
		case errors.Is(err, ErrNotFound):
			// Treated as anonymous below.
		default:
			return nil, r, err
		}
	}

	if session == nil {
		session = NewSession(m.realm)
		slog.Debug("Created new session",
			slog.String("realm", m.realm.String()),
			slog.String("session_id", session.id),
		)
	}

	ctx := context.WithValue(r.Context(), sessionKey, session)
	r = r.WithContext(ctx)

	return session, r, nil
}

func GetSession(r *http.Request) *Session {
	session, ok := r.Context().Value(sessionKey).(*Session)
	if !ok {
		panic("could not find session in context")
	}

	return session
}

func (m *Manager) save(ctx context.Context, session *Session) error {
	session.lastActivityAt = time.Now()

	if err := m.store.write(ctx, session); err != nil {
		slog.Debug("Failed session write", slog.String("error", err.Error()))
		return err
	}

	slog.Debug("Session saved", slog.String("session_id", session.id))
	return nil
}

func (m *Manager) destroySession(ctx context.Context, session *Session) error {
	return m.store.destroy(ctx, session.id)
}

// Migrate gives the session a fresh identifier and CSRF token.
// Called on every privilege transition (login, logout) to shut down
// session fixation: the pre-auth identifier never survives into the
// authenticated session.
func (m *Manager) Migrate(ctx context.Context, session *Session) error {
	old := session.id

	if err := m.store.destroy(ctx, session.id); err != nil {
		return err
	}

	session.id = generateSessionID()
	session.Put("csrf_token", generateCSRFToken())

	slog.Debug("Session migrated",
		slog.String("old", old),
		slog.String("new", session.id),
	)

	return nil
}
