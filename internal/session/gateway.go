package session

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
)

/*
	The gateway is the single source of truth for realm handling. Per
	request it runs one fixed sequence:

	  classify -> resolve session -> authorize -> handler -> persist

	Classification picks the realm from the path alone. Resolution
	reads only that realm's cookie against that realm's store. The
	authorization gate sits in front of every privileged admin
	handler, so no handler can forget the check. Persistence saves the
	session and issues exactly one Set-Cookie, under the realm's own
	name, or a clearing cookie if the handler destroyed the session.
*/

// Authorizer reports whether a principal may act in the admin realm.
// The identity provider supplies the predicate; the gateway only
// enforces it.
type Authorizer func(p *Principal) bool

type GatewayConfig struct {
	Classifier *realm.Classifier
	Public     *Manager
	Admin      *Manager
	Authorize  Authorizer

	// Admin-realm paths reachable without a privileged principal,
	// i.e. the admin login endpoint itself.
	AdminExemptPaths []string
}

type Gateway struct {
	classifier *realm.Classifier
	managers   map[realm.Realm]*Manager
	authorize  Authorizer
	exempt     map[string]struct{}
}

func NewGateway(cfg GatewayConfig) *Gateway {
	exempt := make(map[string]struct{}, len(cfg.AdminExemptPaths))
	for _, p := range cfg.AdminExemptPaths {
		exempt[strings.TrimSuffix(p, "/")] = struct{}{}
	}

	return &Gateway{
		classifier: cfg.Classifier,
		managers: map[realm.Realm]*Manager{
			realm.Public: cfg.Public,
			realm.Admin:  cfg.Admin,
		},
		authorize: cfg.Authorize,
		exempt:    exempt,
	}
}

// Manager returns the session manager for the given realm. Handlers
// that migrate sessions on login/logout reach the store through this.
func (g *Gateway) Manager(rlm realm.Realm) *Manager {
	return g.managers[rlm]
}

func (g *Gateway) exemptPath(path string) bool {
	_, ok := g.exempt[strings.TrimSuffix(path, "/")]
	return ok
}

func verifyCSRFToken(session *Session, r *http.Request) bool {
	sessionCSRFToken, ok := session.Get("csrf_token").(string)
	if !ok {
		return false
	}

	requestCSRFToken := r.FormValue("csrf_token")

	if requestCSRFToken == "" {
		requestCSRFToken = r.Header.Get("X-CSRF-Token")
	}

	if len(sessionCSRFToken) != len(requestCSRFToken) {
		return false
	}

	match := subtle.ConstantTimeCompare(
		[]byte(sessionCSRFToken),
		[]byte(requestCSRFToken),
	) == 1

	return match
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func (g *Gateway) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logging.GetLogger(r)

			rlm := g.classifier.Classify(r.URL.Path)
			m := g.managers[rlm]

			session, r, err := m.start(r)
			if err != nil {
				// Backing store down. Fail the request cleanly,
				// with no cookie issued.
				l.Error("Session resolution failed", slog.String("error", err.Error()))
				http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
				return
			}

			sw := &sessionWriter{
				ResponseWriter: w,
				session:        session,
				manager:        m,
			}

			sw.Header().Add("Vary", "Cookie")
			sw.Header().Add("Cache-Control", "no-cache")
			if token, ok := session.Get("csrf_token").(string); ok {
				sw.Header().Set("X-CSRF-Token", token)
			}

			// Privileged admin paths never reach their handler
			// without an authorized principal. The anonymous
			// session created above is still persisted and its
			// cookie still issued with the rejection.
			if rlm == realm.Admin && !g.exemptPath(r.URL.Path) {
				if !g.authorize(session.Principal()) {
					l.Warn("Unauthorized admin request")
					http.Error(sw, "Forbidden", http.StatusForbidden)
					g.persist(sw, r, m, session)
					return
				}
			}

			if mutating(r.Method) && !verifyCSRFToken(session, r) {
				l.Warn("CSRF token mismatch")
				http.Error(sw, "CSRF token mismatch", http.StatusForbidden)
				g.persist(sw, r, m, session)
				return
			}

			next.ServeHTTP(sw, r)

			g.persist(sw, r, m, session)
		})
	}
}

func (g *Gateway) persist(sw *sessionWriter, r *http.Request, m *Manager, session *Session) {
	l := logging.GetLogger(r)

	if session.Destroyed() {
		if err := m.destroySession(r.Context(), session); err != nil {
			l.Error("Failed to destroy session", slog.String("error", err.Error()))
		}
	} else {
		if err := m.save(r.Context(), session); err != nil {
			l.Error("Failed to save session", slog.String("error", err.Error()))
		}
	}

	if !sw.cookieSet {
		sw.writeCookieOnce()
	}
}
