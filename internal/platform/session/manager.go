package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultCookieName = "console_session"

// Options configures a Manager.
type Options struct {
	SigningKey   []byte
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// Manager creates, resolves and destroys sessions and owns the cookie that
// points at them.
type Manager struct {
	store  Store
	signer signer
	ttl    time.Duration
	cookie string
	secure bool
	now    func() time.Time
}

func NewManager(store Store, opts Options) (*Manager, error) {
	if len(opts.SigningKey) < 32 {
		return nil, fmt.Errorf("session signing key must be at least 32 bytes, got %d", len(opts.SigningKey))
	}
	if opts.TTL <= 0 {
		opts.TTL = 8 * time.Hour
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Manager{
		store:  store,
		signer: signer{key: opts.SigningKey},
		ttl:    opts.TTL,
		cookie: opts.CookieName,
		secure: opts.CookieSecure,
		now:    time.Now,
	}, nil
}

func (m *Manager) CookieName() string { return m.cookie }

// Create stores a new session for an upstream token and returns it together
// with the cookie to set. The session never outlives the upstream token.
func (m *Manager) Create(ctx context.Context, token, role, email string) (*Session, *http.Cookie, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil, errors.New("empty upstream token")
	}
	now := m.now()
	expires := now.Add(m.ttl)
	if exp, ok := UpstreamExpiry(token); ok && exp.Before(expires) {
		expires = exp
	}
	if !expires.After(now) {
		return nil, nil, errors.New("upstream token already expired")
	}

	sess := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		Role:      NormalizeRole(role),
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		ExpiresAt: expires,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, nil, err
	}

	value, err := m.signer.sign(sess.ID, expires)
	if err != nil {
		return nil, nil, err
	}
	return sess, m.newCookie(value, expires), nil
}

// Load resolves the session referenced by the request cookie. It returns
// ErrNotFound when there is no cookie, the cookie is invalid or the session
// is gone.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookie)
	if err != nil || c.Value == "" {
		return nil, ErrNotFound
	}
	id, err := m.signer.verify(c.Value)
	if err != nil {
		return nil, ErrNotFound
	}
	return m.store.Get(ctx, id)
}

// Destroy removes the session from the store. Unknown ids are not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// ClearCookie returns a cookie that makes the browser drop the session.
func (m *Manager) ClearCookie() *http.Cookie {
	c := m.newCookie("", time.Unix(0, 0))
	c.MaxAge = -1
	return c
}

func (m *Manager) newCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
