package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CHRISTIANARIBAL/guiritan/internal/realm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managersForTest() (*Manager, *Manager) {
	cfg := testSessionConfig()
	public := NewManager(realm.Public, NewInMemoryStore(), cfg)
	admin := NewManager(realm.Admin, NewInMemoryStore(), cfg)
	return public, admin
}

func requestWithCookies(t *testing.T, res *http.Response) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}

	return req
}

func TestCodecRoundTrip(t *testing.T) {
	public, _ := managersForTest()

	rec := httptest.NewRecorder()
	require.NoError(t, public.codec.encode(rec, "some-session-id"))

	req := requestWithCookies(t, rec.Result())

	id, ok := public.codec.decode(req)
	require.True(t, ok)
	assert.Equal(t, "some-session-id", id)
}

func TestCodecCookieName(t *testing.T) {
	public, admin := managersForTest()

	assert.Equal(t, "user_sessionid", public.codec.name)
	assert.Equal(t, "admin_sessionid", admin.codec.name)
	assert.Equal(t, http.SameSiteLaxMode, public.codec.sameSite)
	assert.Equal(t, http.SameSiteStrictMode, admin.codec.sameSite)
}

// A cookie under the other realm's name is invisible, even though it
// is validly signed.
func TestCodecIgnoresOtherRealm(t *testing.T) {
	public, admin := managersForTest()

	rec := httptest.NewRecorder()
	require.NoError(t, admin.codec.encode(rec, "admin-session-id"))

	req := requestWithCookies(t, rec.Result())

	_, ok := public.codec.decode(req)
	assert.False(t, ok)
}

// A signed value moved under the other realm's cookie name fails
// verification: the name is part of the signature.
func TestCodecRejectsTransplantedValue(t *testing.T) {
	public, admin := managersForTest()

	rec := httptest.NewRecorder()
	require.NoError(t, admin.codec.encode(rec, "admin-session-id"))

	stolen := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.AddCookie(&http.Cookie{
		Name:  public.codec.name,
		Value: stolen.Value,
	})

	_, ok := public.codec.decode(req)
	assert.False(t, ok)
}

func TestCodecMalformedIsAbsent(t *testing.T) {
	public, _ := managersForTest()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  public.codec.name,
		Value: "not-a-signed-cookie",
	})

	_, ok := public.codec.decode(req)
	assert.False(t, ok)
}

func TestCodecCookieAttributes(t *testing.T) {
	_, admin := managersForTest()

	rec := httptest.NewRecorder()
	require.NoError(t, admin.codec.encode(rec, "id"))

	cookie := rec.Result().Cookies()[0]
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((30 * 60)), cookie.MaxAge)
}

func TestCodecClear(t *testing.T) {
	public, _ := managersForTest()

	rec := httptest.NewRecorder()
	public.codec.clear(rec)

	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, "user_sessionid", cookie.Name)
	assert.Negative(t, cookie.MaxAge)
}
