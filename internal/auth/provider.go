package auth

import (
	"context"
	"errors"
	"time"
)

type User struct {
	ID        string
	Email     string
	FullName  string
	Phone     string
	CreatedAt time.Time
}

// Session is the logged-in state handed to the rendering layer. The token is
// the opaque credential the client presents on subsequent requests.
type Session struct {
	Token string
	User  User
}

// Auth state change events, delivered to subscribers push-style.
const (
	EventSignedIn    = "SIGNED_IN"
	EventSignedOut   = "SIGNED_OUT"
	EventUserUpdated = "USER_UPDATED"
)

type ProfileUpdate struct {
	FullName *string
	Phone    *string
}

// Provider is the authentication backend the storefront consumes. Error
// messages are surfaced to the user verbatim as a single banner, so they are
// written for humans.
type Provider interface {
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*Session, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*User, error)
	Subscribe(fn func(event string, session *Session)) (unsubscribe func())
}

var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrEmailTaken         = errors.New("User already registered")
	ErrWeakPassword       = errors.New("Password should be at least 6 characters")
	ErrNoActiveSession    = errors.New("Auth session missing")
)
