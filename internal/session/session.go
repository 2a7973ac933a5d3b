package session

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
)

// Principal identifies the authenticated user bound to a session.
// Admin is the authorization flag the gateway consults before letting
// a request into a privileged admin handler.
type Principal struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

// Session is one browsing context, anonymous or authenticated. Its
// realm is fixed at creation; nothing reassigns it afterwards.
type Session struct {
	id             string
	realm          realm.Realm
	principal      *Principal
	data           map[string]any
	createdAt      time.Time
	lastActivityAt time.Time
	destroyed      bool
}

func generateSessionID() string {
	id := make([]byte, 32)

	_, err := io.ReadFull(rand.Reader, id)
	if err != nil {
		panic("somehow failed to generate session identifier")
	}

	return base64.RawURLEncoding.EncodeToString(id)
}

func generateCSRFToken() string {
	token := make([]byte, 32)

	_, err := io.ReadFull(rand.Reader, token)
	if err != nil {
		panic("somehow failed to generate CSRF token")
	}

	return base64.RawURLEncoding.EncodeToString(token)
}

func NewSession(rlm realm.Realm) *Session {
	return &Session{
		id:    generateSessionID(),
		realm: rlm,
		data: map[string]any{
			"csrf_token": generateCSRFToken(),
		},
		createdAt:      time.Now(),
		lastActivityAt: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Realm() realm.Realm {
	return s.realm
}

func (s *Session) Principal() *Principal {
	return s.principal
}

func (s *Session) SetPrincipal(p Principal) {
	s.principal = &p
}

func (s *Session) ClearPrincipal() {
	s.principal = nil
}

func (s *Session) IsAuthenticated() bool {
	return s.principal != nil
}

func (s *Session) Get(key string) any {
	return s.data[key]
}

func (s *Session) Put(key string, value any) {
	s.data[key] = value
}

func (s *Session) Delete(key string) {
	delete(s.data, key)
}

// Destroy marks the session for removal. The gateway performs the
// actual store delete and clears the cookie at persist time.
func (s *Session) Destroy() {
	s.destroyed = true
}

func (s *Session) Destroyed() bool {
	return s.destroyed
}

// clone returns an independent copy of the session. The in-memory
// store snapshots through this on every read and write; sharing the
// live record between in-flight requests would race on the data map.
func (s *Session) clone() *Session {
	c := *s

	c.data = make(map[string]any, len(s.data))
	for key, value := range s.data {
		c.data[key] = copyValue(value)
	}

	if s.principal != nil {
		p := *s.principal
		c.principal = &p
	}

	return &c
}

// copyValue covers the JSON-shaped values sessions actually hold:
// scalars, string-keyed maps, and slices. Anything else is assumed
// immutable and shared.
func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for key, elem := range v {
			m[key] = copyValue(elem)
		}
		return m
	case map[string]int:
		m := make(map[string]int, len(v))
		for key, elem := range v {
			m[key] = elem
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, elem := range v {
			s[i] = copyValue(elem)
		}
		return s
	default:
		return v
	}
}
