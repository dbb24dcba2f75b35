package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rentmap/internal/models"
)

// DefaultTTL is how long a session stays valid after login.
const DefaultTTL = 24 * time.Hour

// AuthAPI is the auth backend as the manager sees it.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Register(ctx context.Context, reg Registration) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

// RecordStore persists at most one SessionRecord under a fixed key. Load
// returns (nil, nil) when no record exists; an error means the record was
// unreadable, which the manager treats as logged-out.
type RecordStore interface {
	Load(ctx context.Context) (*models.SessionRecord, error)
	Save(ctx context.Context, rec models.SessionRecord) error
	Delete(ctx context.Context) error
}

// Status is the derived authentication state.
type Status struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
	Token         string       `json:"-"`
}

// Manager owns the session lifecycle: it is the only writer of the record
// store it is given.
type Manager struct {
	api   AuthAPI
	store RecordStore
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

// NewManager creates a session manager with the default 24h session TTL.
func NewManager(api AuthAPI, store RecordStore) *Manager {
	return &Manager{
		api:   api,
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// CheckStatus derives the authentication state from the persisted record.
// Expired records are deleted on detection. Read or decode failures are
// fail-closed: the record is best-effort removed and the state is
// unauthenticated, never an error.
func (m *Manager) CheckStatus(ctx context.Context) Status {
	rec, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("unreadable session record, treating as logged out")
		if derr := m.store.Delete(ctx); derr != nil {
			m.log.Warn().Err(derr).Msg("failed to clear unreadable session record")
		}
		return Status{}
	}
	if rec == nil {
		return Status{}
	}
	if !rec.Valid(m.now()) {
		if derr := m.store.Delete(ctx); derr != nil {
			m.log.Warn().Err(derr).Msg("failed to clear expired session record")
		}
		return Status{}
	}
	return Status{Authenticated: true, User: &rec.User, Token: rec.Token}
}

// Login authenticates against the backend and persists the session,
// overwriting any previous record. A response missing token or user fails
// with ErrInvalidResponse; rejected credentials or transport failures fail
// with an AuthError.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Status, error) {
	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		return Status{}, err
	}
	return m.establish(ctx, resp)
}

// Register creates an account and persists the resulting session. Same
// contract shape as Login.
func (m *Manager) Register(ctx context.Context, reg Registration) (Status, error) {
	resp, err := m.api.Register(ctx, reg)
	if err != nil {
		return Status{}, err
	}
	return m.establish(ctx, resp)
}

// Logout best-effort notifies the backend, then unconditionally deletes the
// local record. A failed server call never keeps the session alive locally.
func (m *Manager) Logout(ctx context.Context) error {
	rec, err := m.store.Load(ctx)
	if err == nil && rec != nil && rec.Token != "" {
		if err := m.api.Logout(ctx, rec.Token); err != nil {
			m.log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
		}
	}
	return m.store.Delete(ctx)
}

// Token returns the current bearer token, if an unexpired session exists.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	status := m.CheckStatus(ctx)
	return status.Token, status.Authenticated
}

func (m *Manager) establish(ctx context.Context, resp *AuthResponse) (Status, error) {
	if resp == nil || resp.Token == "" || resp.User == nil {
		return Status{}, ErrInvalidResponse
	}

	rec := models.SessionRecord{
		Token:     resp.Token,
		User:      *resp.User,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return Status{}, fmt.Errorf("session: persist record: %w", err)
	}
	return Status{Authenticated: true, User: resp.User, Token: resp.Token}, nil
}
