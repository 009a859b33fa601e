// Package session persists the signed-in identity and guards access to
// authenticated operations.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

const sessionKeySuffix = "_session"

// Manager owns the persisted token and cached user. Both live in one record
// under one key, so readers never observe a token without its user.
type Manager struct {
	store  repository.KeyValueStore
	key    string
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
	// cleared hides a record that Clear could not remove, until the next Save.
	cleared bool
}

// NewManager constructs a Manager storing under prefix+"_session".
func NewManager(store repository.KeyValueStore, prefix string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = "@api_notas"
	}
	return &Manager{store: store, key: prefix + sessionKeySuffix, logger: logger, now: time.Now}
}

// Save persists token and user. Unlike the read paths, failures are returned
// so that a login whose session cannot be stored is reported as failed.
func (m *Manager) Save(ctx context.Context, token string, user models.User) error {
	if strings.TrimSpace(token) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "token is required")
	}
	payload, err := json.Marshal(models.Session{Token: token, User: user, SavedAt: m.now().UTC()})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage, "encode session")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(ctx, m.key, string(payload)); err != nil {
		m.logger.Error("failed to save session", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrStorage, "save session")
	}
	m.cleared = false
	return nil
}

// UpdateUser replaces the cached profile of an existing session.
func (m *Manager) UpdateUser(ctx context.Context, user models.User) error {
	current, ok := m.Current(ctx)
	if !ok {
		return appErrors.ErrNotAuthenticated
	}
	return m.Save(ctx, current.Token, user)
}

// Current returns the whole session, or false when there is none or it cannot be read.
func (m *Manager) Current(ctx context.Context) (*models.Session, bool) {
	m.mu.Lock()
	if m.cleared {
		m.mu.Unlock()
		return nil, false
	}
	raw, err := m.store.Get(ctx, m.key)
	m.mu.Unlock()
	if err != nil {
		if !errors.Is(err, appErrors.ErrKeyNotFound) {
			m.logger.Warn("failed to read session", zap.Error(err))
		}
		return nil, false
	}

	if raw == "" {
		return nil, false
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		m.logger.Warn("discarding unreadable session", zap.Error(err))
		return nil, false
	}
	if sess.Token == "" {
		return nil, false
	}
	return &sess, true
}

// Token returns the bearer token when a session exists.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	sess, ok := m.Current(ctx)
	if !ok {
		return "", false
	}
	return sess.Token, true
}

// User returns the cached profile when a session exists.
func (m *Manager) User(ctx context.Context) (*models.User, bool) {
	sess, ok := m.Current(ctx)
	if !ok {
		return nil, false
	}
	user := sess.User
	return &user, true
}

// Clear removes the session. It is a no-op when none exists and never fails;
// storage errors are logged. When the record cannot be removed it is
// overwritten with an empty value, and this manager reports no session until
// the next Save either way.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.store.Remove(ctx, m.key)
	if err == nil {
		m.cleared = false
		return
	}
	m.logger.Warn("failed to clear session", zap.Error(err))
	m.cleared = true
	if err := m.store.Set(ctx, m.key, ""); err != nil {
		m.logger.Warn("failed to blank session", zap.Error(err))
	}
}

// IsAuthenticated reports whether a token is present. The token is not
// verified locally; the API rejects it on the next call if it is stale.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	_, ok := m.Token(ctx)
	return ok
}
