package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/CHRISTIANARIBAL/guiritan/internal/db"
	"github.com/CHRISTIANARIBAL/guiritan/internal/hash"
	"github.com/CHRISTIANARIBAL/guiritan/internal/session"
)

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrPasswordTooShort   = errors.New("password does not meet minimum length")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const minPasswordLength = 8

// IsPrivileged is the authorization predicate the gateway enforces on
// every admin-realm request.
func IsPrivileged(p *session.Principal) bool {
	return p != nil && p.Admin
}

func Register(ctx context.Context, store *db.DB, username, password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	exists, err := store.UserExists(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return ErrUsernameTaken
	}

	hashedPassword, err := hash.GenerateFromPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := store.CreateUser(ctx, username, hashedPassword); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// VerifyCredentials authenticates a username/password pair and
// returns the matching principal. A miss on the username still runs a
// comparison against the dummy hash so both failure modes cost the
// same.
func VerifyCredentials(ctx context.Context, store *db.DB, username, password string) (*session.Principal, error) {
	user, err := store.GetUserByUsername(ctx, username)

	hashedPassword := hash.DummyHash()
	exists := false

	switch {
	case err == nil:
		hashedPassword = user.PasswordHash
		exists = true
	case errors.Is(err, db.ErrResourceNotFound):
		// Keep going with the dummy hash.
	default:
		return nil, fmt.Errorf("failed credential lookup: %w", err)
	}

	ok := hash.CompareHashAndPassword(hashedPassword, password)

	if !(exists && ok) {
		return nil, ErrInvalidCredentials
	}

	return &session.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.IsStaff,
	}, nil
}

// Login binds the principal to the request's session. The session is
// migrated first: a privilege change never keeps its old identifier.
func Login(r *http.Request, m *session.Manager, p session.Principal) error {
	s := session.GetSession(r)

	if err := m.Migrate(r.Context(), s); err != nil {
		return fmt.Errorf("failed to migrate session: %w", err)
	}

	s.SetPrincipal(p)

	return nil
}

// Logout drops the principal and destroys the session. The gateway
// clears the realm cookie when it sees the destroyed flag.
func Logout(r *http.Request) {
	s := session.GetSession(r)

	s.ClearPrincipal()
	s.Destroy()
}
