package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayFixture struct {
	public  *Manager
	admin   *Manager
	handler http.Handler

	// last session seen by a handler
	seen *Session
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	cfg := testSessionConfig()

	f := &gatewayFixture{
		public: NewManager(realm.Public, NewInMemoryStore(), cfg),
		admin:  NewManager(realm.Admin, NewInMemoryStore(), cfg),
	}

	gateway := NewGateway(GatewayConfig{
		Classifier: realm.NewClassifier(cfg.AdminPrefixes),
		Public:     f.public,
		Admin:      f.admin,
		Authorize: func(p *Principal) bool {
			return p != nil && p.Admin
		},
		AdminExemptPaths: []string{"/admin-login/"},
	})

	mux := http.NewServeMux()

	mux.HandleFunc("GET /cart/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.seen = GetSession(r)
		w.Write([]byte(f.seen.ID()))
	})

	mux.HandleFunc("POST /logout/{$}", func(w http.ResponseWriter, r *http.Request) {
		GetSession(r).Destroy()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /admin-login/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /admin-login/{$}", func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		require.NoError(t, f.admin.Migrate(r.Context(), s))
		s.SetPrincipal(Principal{UserID: 1, Username: "root", Admin: true})
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /myadmin/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.seen = GetSession(r)
		w.Write([]byte("dashboard"))
	})

	mux.HandleFunc("POST /myadmin/products/add/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	f.handler = gateway.Middleware()(mux)

	return f
}

func (f *gatewayFixture) do(req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec.Result()
}

func cookieNames(res *http.Response) []string {
	var names []string
	for _, c := range res.Cookies() {
		names = append(names, c.Name)
	}
	return names
}

func findCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// A privileged admin path with no cookie yields Forbidden before the
// handler runs. The rejection still carries a fresh anonymous admin
// cookie, and never the public one.
func TestGatewayForbiddenOnAnonymousAdminRequest(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/myadmin/products/add/", nil)
	res := f.do(req)

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, []string{"admin_sessionid"}, cookieNames(res))
	assert.Nil(t, findCookie(res, "user_sessionid"))
}

func TestGatewaySessionPersistsAcrossRequests(t *testing.T) {
	f := newGatewayFixture(t)

	first := f.do(httptest.NewRequest(http.MethodGet, "/cart/", nil))
	assert.Equal(t, http.StatusOK, first.StatusCode)
	firstID, _ := io.ReadAll(first.Body)

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	for _, c := range first.Cookies() {
		req.AddCookie(c)
	}

	second := f.do(req)
	secondID, _ := io.ReadAll(second.Body)

	assert.Equal(t, string(firstID), string(secondID))
}

func adminLogin(t *testing.T, f *gatewayFixture) []*http.Cookie {
	t.Helper()

	res := f.do(httptest.NewRequest(http.MethodGet, "/admin-login/", nil))
	require.Equal(t, http.StatusOK, res.StatusCode)

	token := res.Header.Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodPost, "/admin-login/", nil)
	req.Header.Set("X-CSRF-Token", token)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}

	login := f.do(req)
	require.Equal(t, http.StatusOK, login.StatusCode)
	require.Equal(t, []string{"admin_sessionid"}, cookieNames(login))

	// Login migrated the session; the pre-auth identifier is gone.
	anon := findCookie(res, "admin_sessionid")
	authed := findCookie(login, "admin_sessionid")
	require.NotEqual(t, anon.Value, authed.Value)

	return login.Cookies()
}

func TestGatewayAdminLoginFlow(t *testing.T) {
	f := newGatewayFixture(t)

	cookies := adminLogin(t, f)

	req := httptest.NewRequest(http.MethodGet, "/myadmin/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	res := f.do(req)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, f.seen)
	assert.Equal(t, realm.Admin, f.seen.Realm())
	assert.True(t, f.seen.Principal().Admin)
}

// The authenticated admin cookie means nothing on a public path. The
// public codec only reads its own cookie name, so the request gets a
// fresh anonymous public session.
func TestGatewayAdminCookieIgnoredOnPublicPath(t *testing.T) {
	f := newGatewayFixture(t)

	cookies := adminLogin(t, f)

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	res := f.do(req)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.NotNil(t, f.seen)
	assert.Equal(t, realm.Public, f.seen.Realm())
	assert.False(t, f.seen.IsAuthenticated())

	// Only the public cookie is issued, and it does not echo the
	// admin session identifier.
	assert.Equal(t, []string{"user_sessionid"}, cookieNames(res))

	probe := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	probe.AddCookie(findCookie(res, "user_sessionid"))
	id, ok := f.public.codec.decode(probe)
	require.True(t, ok)

	adminProbe := httptest.NewRequest(http.MethodGet, "/myadmin/", nil)
	for _, c := range cookies {
		adminProbe.AddCookie(c)
	}
	adminID, ok := f.admin.codec.decode(adminProbe)
	require.True(t, ok)

	assert.NotEqual(t, adminID, id)
}

func TestGatewayLogoutDestroysSessionAndClearsCookie(t *testing.T) {
	f := newGatewayFixture(t)

	res := f.do(httptest.NewRequest(http.MethodGet, "/cart/", nil))
	token := res.Header.Get("X-CSRF-Token")
	sessionID := f.seen.ID()

	req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	req.Header.Set("X-CSRF-Token", token)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}

	logout := f.do(req)
	assert.Equal(t, http.StatusNoContent, logout.StatusCode)

	cleared := findCookie(logout, "user_sessionid")
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	_, err := f.public.store.read(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGatewayRejectsMutationWithoutCSRFToken(t *testing.T) {
	f := newGatewayFixture(t)

	res := f.do(httptest.NewRequest(http.MethodGet, "/cart/", nil))

	req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}

	rejected := f.do(req)
	assert.Equal(t, http.StatusForbidden, rejected.StatusCode)
}

func TestGatewayExpiredSessionTreatedAsNew(t *testing.T) {
	f := newGatewayFixture(t)

	stale := NewSession(realm.Public)
	stale.lastActivityAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, f.public.store.write(context.Background(), stale))

	rec := httptest.NewRecorder()
	require.NoError(t, f.public.codec.encode(rec, stale.ID()))

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	res := f.do(req)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body, _ := io.ReadAll(res.Body)
	assert.NotEqual(t, stale.ID(), string(body))
}

// Two tabs hammering the same cookie must never share a live session.
// Each request mutates its own copy; the store serializes the saves.
func TestGatewayConcurrentRequestsOneCookie(t *testing.T) {
	cfg := testSessionConfig()

	public := NewManager(realm.Public, NewInMemoryStore(), cfg)
	admin := NewManager(realm.Admin, NewInMemoryStore(), cfg)

	gateway := NewGateway(GatewayConfig{
		Classifier:       realm.NewClassifier(cfg.AdminPrefixes),
		Public:           public,
		Admin:            admin,
		Authorize:        func(p *Principal) bool { return p != nil && p.Admin },
		AdminExemptPaths: []string{"/admin-login/"},
	})

	const parallel = 8

	sessions := make(chan *Session, parallel+1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /cart/{$}", func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		for i := range 50 {
			s.Put("counter", i)
		}
		sessions <- s
		w.WriteHeader(http.StatusOK)
	})

	handler := gateway.Middleware()(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart/", nil))
	require.Equal(t, http.StatusOK, rec.Result().StatusCode)
	cookies := rec.Result().Cookies()

	var wg sync.WaitGroup
	for range parallel {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
			for _, c := range cookies {
				req.AddCookie(c)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		}()
	}
	wg.Wait()
	close(sessions)

	distinct := make(map[*Session]struct{})
	for s := range sessions {
		distinct[s] = struct{}{}
	}
	assert.Len(t, distinct, parallel+1)
}

type downStore struct{}

func (downStore) read(context.Context, string) (*Session, error) {
	return nil, ErrStoreUnavailable
}

func (downStore) write(context.Context, *Session) error {
	return ErrStoreUnavailable
}

func (downStore) destroy(context.Context, string) error {
	return ErrStoreUnavailable
}

func (downStore) gc(context.Context, time.Duration, time.Duration) error {
	return ErrStoreUnavailable
}

func TestGatewayStoreUnavailable(t *testing.T) {
	cfg := testSessionConfig()

	public := NewManager(realm.Public, downStore{}, cfg)
	admin := NewManager(realm.Admin, NewInMemoryStore(), cfg)

	gateway := NewGateway(GatewayConfig{
		Classifier:       realm.NewClassifier(cfg.AdminPrefixes),
		Public:           public,
		Admin:            admin,
		Authorize:        func(p *Principal) bool { return p != nil && p.Admin },
		AdminExemptPaths: []string{"/admin-login/"},
	})

	handler := gateway.Middleware()(http.NewServeMux())

	rec := httptest.NewRecorder()
	require.NoError(t, public.codec.encode(rec, "some-live-session"))

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	res := w.Result()

	// Fails cleanly: no cookie is issued with the error.
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Empty(t, res.Cookies())
}
