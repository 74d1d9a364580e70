package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	user         User
	passwordHash []byte
}

// MemoryProvider is an in-process Provider. It exists so the storefront is
// complete without the hosted backend; the surface and error texts match the
// hosted provider so swapping it in changes nothing for callers.
type MemoryProvider struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by lowercased email
	sessions map[string]string   // token -> email

	subMu       sync.Mutex
	subscribers map[int]func(event string, session *Session)
	nextSubID   int
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts:    make(map[string]*account),
		sessions:    make(map[string]string),
		subscribers: make(map[int]func(event string, session *Session)),
	}
}

func (p *MemoryProvider) SignUp(_ context.Context, email, password, fullName string) (*Session, error) {
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	key := strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	if _, exists := p.accounts[key]; exists {
		p.mu.Unlock()
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}

	acc := &account{
		user: User{
			ID:        uuid.NewString(),
			Email:     key,
			FullName:  fullName,
			CreatedAt: time.Now(),
		},
		passwordHash: hash,
	}
	p.accounts[key] = acc

	token := uuid.NewString()
	p.sessions[token] = key
	session := &Session{Token: token, User: acc.user}
	p.mu.Unlock()

	p.notify(EventSignedIn, session)
	return session, nil
}

func (p *MemoryProvider) SignIn(_ context.Context, email, password string) (*Session, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	acc, exists := p.accounts[key]
	if !exists {
		p.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		p.mu.Unlock()
		return nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	p.sessions[token] = key
	session := &Session{Token: token, User: acc.user}
	p.mu.Unlock()

	p.notify(EventSignedIn, session)
	return session, nil
}

func (p *MemoryProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	_, existed := p.sessions[token]
	delete(p.sessions, token)
	p.mu.Unlock()

	if existed {
		p.notify(EventSignedOut, nil)
	}
	return nil
}

func (p *MemoryProvider) Session(_ context.Context, token string) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	email, ok := p.sessions[token]
	if !ok {
		return nil, ErrNoActiveSession
	}
	acc, ok := p.accounts[email]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return &Session{Token: token, User: acc.user}, nil
}

func (p *MemoryProvider) UpdateProfile(_ context.Context, token string, update ProfileUpdate) (*User, error) {
	p.mu.Lock()
	email, ok := p.sessions[token]
	if !ok {
		p.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	acc := p.accounts[email]
	if update.FullName != nil {
		acc.user.FullName = *update.FullName
	}
	if update.Phone != nil {
		acc.user.Phone = *update.Phone
	}
	user := acc.user
	session := &Session{Token: token, User: user}
	p.mu.Unlock()

	p.notify(EventUserUpdated, session)
	return &user, nil
}

func (p *MemoryProvider) Subscribe(fn func(event string, session *Session)) func() {
	p.subMu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		delete(p.subscribers, id)
		p.subMu.Unlock()
	}
}

func (p *MemoryProvider) notify(event string, session *Session) {
	p.subMu.Lock()
	fns := make([]func(string, *Session), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		fns = append(fns, fn)
	}
	p.subMu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}
