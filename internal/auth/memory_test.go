package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndSignIn(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	created, err := p.SignUp(ctx, "Ada@Example.com", "secret123", "Ada Obi")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.User.Email)
	assert.Equal(t, "Ada Obi", created.User.FullName)
	assert.NotEmpty(t, created.Token)

	session, err := p.SignIn(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, session.User.ID)
}

func TestSignUp_WeakPassword(t *testing.T) {
	p := NewMemoryProvider()

	_, err := p.SignUp(context.Background(), "ada@example.com", "12345", "Ada")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.SignUp(ctx, "ada@example.com", "secret123", "Ada")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "ADA@example.com", "different1", "Other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn_WrongPassword(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.SignUp(ctx, "ada@example.com", "secret123", "Ada")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	p := NewMemoryProvider()

	_, err := p.SignIn(context.Background(), "ghost@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut_InvalidatesSession(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	session, err := p.SignUp(ctx, "ada@example.com", "secret123", "Ada")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, session.Token))

	_, err = p.Session(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestUpdateProfile(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	session, err := p.SignUp(ctx, "ada@example.com", "secret123", "Ada")
	require.NoError(t, err)

	name := "Ada Lovelace"
	phone := "+234 111 222 3333"
	user, err := p.UpdateProfile(ctx, session.Token, ProfileUpdate{FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.FullName)
	assert.Equal(t, "+234 111 222 3333", user.Phone)

	// The stored account is updated too, not just the returned copy.
	fresh, err := p.Session(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", fresh.User.FullName)
}

func TestSubscribe_ReceivesAuthEvents(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	var events []string
	unsubscribe := p.Subscribe(func(event string, _ *Session) {
		events = append(events, event)
	})

	session, err := p.SignUp(ctx, "ada@example.com", "secret123", "Ada")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx, session.Token))

	assert.Equal(t, []string{EventSignedIn, EventSignedOut}, events)

	unsubscribe()
	_, err = p.SignIn(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
