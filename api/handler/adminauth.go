package handler

import (
	"errors"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/auth"
	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/session"
)

// AdminAuthHandler serves login and logout for the back-office. Both
// endpoints live on the admin realm, so the session they touch is the
// admin session and the cookie they cause is admin_sessionid, never
// the public one.
type AdminAuthHandler struct {
	db      *db.DB
	manager *session.Manager
}

func NewAdminAuthHandler(db *db.DB, manager *session.Manager) *AdminAuthHandler {
	return &AdminAuthHandler{db: db, manager: manager}
}

func (h *AdminAuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin-login/{$}", h.loginGET)
	mux.HandleFunc("POST /admin-login/{$}", h.loginPOST)
	mux.HandleFunc("POST /myadmin/logout/{$}", h.logout)
}

func (h *AdminAuthHandler) loginGET(w http.ResponseWriter, r *http.Request) {
	s := session.GetSession(r)

	if auth.IsPrivileged(s.Principal()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *AdminAuthHandler) loginPOST(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	username := r.FormValue("username")
	password := r.FormValue("password")

	principal, err := auth.VerifyCredentials(r.Context(), h.db, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			l.Warn("Failed admin login", "username", username)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid admin credentials"))
			return
		}

		l.Error("Failed credential check", "error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Valid credentials are not enough; only staff principals may
	// hold an authenticated admin-realm session.
	if !principal.Admin {
		l.Warn("Non-staff login attempt on admin site", "username", username)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Invalid admin credentials"))
		return
	}

	if err := auth.Login(r, h.manager, *principal); err != nil {
		l.Error("Failed admin login migration", "username", username)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	l.Info("Successful admin login", "username", username)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Admin login success"))
}

func (h *AdminAuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	s := session.GetSession(r)
	username := s.Principal().Username

	auth.Logout(r)

	l.Info("Successful admin logout", "username", username)
	w.WriteHeader(http.StatusNoContent)
}
