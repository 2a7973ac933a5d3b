package handler

import (
	"errors"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/auth"
	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/logging"
	"github.com/CHRISTIANARIBAL/guiritan/internal/session"
)

// AccountHandler serves registration, login, and logout on the public
// site. Staff credentials are refused here outright; the back-office
// has its own login on the admin realm, and the two sessions stay
// independent by design.
type AccountHandler struct {
	db      *db.DB
	manager *session.Manager
}

func NewAccountHandler(db *db.DB, manager *session.Manager) *AccountHandler {
	return &AccountHandler{db: db, manager: manager}
}

func (h *AccountHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /register/{$}", h.register)
	mux.HandleFunc("GET /login/{$}", h.loginGET)
	mux.HandleFunc("POST /login/{$}", h.loginPOST)
	mux.HandleFunc("POST /logout/{$}", h.logout)
}

func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	username := r.FormValue("username")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if username == "" || password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Username and password required"))
		return
	}

	if password != confirm {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Passwords do not match"))
		return
	}

	err := auth.Register(r.Context(), h.db, username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			l.Info("Failed registration: username taken", "username", username)
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte("Username already taken"))

		case errors.Is(err, auth.ErrPasswordTooShort):
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Password too short"))

		default:
			l.Error("Failed registration", "error", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	l.Info("Successful registration", "username", username)
	w.WriteHeader(http.StatusCreated)
}

func (h *AccountHandler) loginGET(w http.ResponseWriter, r *http.Request) {
	s := session.GetSession(r)
	l := logging.GetLogger(r)

	if s.IsAuthenticated() {
		// NOTE: NoContent -> signal frontend to redirect
		l.Info("Already logged in")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *AccountHandler) loginPOST(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	username := r.FormValue("username")
	password := r.FormValue("password")

	principal, err := auth.VerifyCredentials(r.Context(), h.db, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			l.Warn("Failed login", "username", username)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid credentials"))
			return
		}

		l.Error("Failed credential check", "error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Staff accounts belong to the admin realm. Their principal never
	// enters a public-realm session through this endpoint.
	if principal.Admin {
		l.Warn("Staff login attempt on public site", "username", username)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Admin accounts cannot log in through the user site"))
		return
	}

	if err := auth.Login(r, h.manager, *principal); err != nil {
		l.Error("Failed login migration", "username", username)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	l.Info("Successful login", "username", username)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Login success"))
}

func (h *AccountHandler) logout(w http.ResponseWriter, r *http.Request) {
	l := logging.GetLogger(r)

	s := session.GetSession(r)

	if !s.IsAuthenticated() {
		l.Warn("Failed logout: unauthenticated client")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	username := s.Principal().Username

	auth.Logout(r)

	l.Info("Successful logout", "username", username)
	w.WriteHeader(http.StatusNoContent)
}
