package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// State is the route guard state.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Listener is notified after every state transition.
type Listener func(State)

// Guard gates authenticated operations. It starts Unknown, resolves once from
// storage and afterwards only moves on sign-in, sign-out or rejection by the
// API. It never returns to Unknown.
type Guard struct {
	manager *Manager
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	user      *models.User
	listeners map[int]Listener
	nextID    int
}

// NewGuard constructs a guard over the session manager.
func NewGuard(manager *Manager, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{manager: manager, logger: logger, listeners: make(map[int]Listener)}
}

// Manager exposes the underlying session manager.
func (g *Guard) Manager() *Manager {
	return g.manager
}

// State returns the current state without touching storage.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// User returns the signed-in user when authenticated.
func (g *Guard) User() *models.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

// Resolve reads storage on first use and returns the resolved state. Later
// calls return the current state.
func (g *Guard) Resolve(ctx context.Context) State {
	g.mu.Lock()
	if g.state != StateUnknown {
		s := g.state
		g.mu.Unlock()
		return s
	}
	g.mu.Unlock()

	sess, ok := g.manager.Current(ctx)

	g.mu.Lock()
	if g.state != StateUnknown {
		// a sign-in or sign-out raced the storage read and wins
		s := g.state
		g.mu.Unlock()
		return s
	}
	if ok {
		user := sess.User
		g.user = &user
		g.state = StateAuthenticated
	} else {
		g.state = StateUnauthenticated
	}
	s := g.state
	listeners := g.snapshotListeners()
	g.mu.Unlock()

	notify(listeners, s)
	return s
}

// Require resolves the guard and returns the user, or ErrNotAuthenticated.
func (g *Guard) Require(ctx context.Context) (*models.User, error) {
	if g.Resolve(ctx) != StateAuthenticated {
		return nil, appErrors.ErrNotAuthenticated
	}
	return g.User(), nil
}

// SignedIn records a successful login. The session must already be saved.
func (g *Guard) SignedIn(user models.User) {
	g.transition(StateAuthenticated, &user)
}

// SignOut clears the session and moves to Unauthenticated.
func (g *Guard) SignOut(ctx context.Context) {
	g.manager.Clear(ctx)
	g.transition(StateUnauthenticated, nil)
}

// Invalidate is called by the transport when the API rejects the token.
func (g *Guard) Invalidate(ctx context.Context) {
	g.logger.Info("session rejected by api, signing out")
	g.SignOut(ctx)
}

// Token returns the bearer token for outbound requests. No token is handed
// out once the guard is Unauthenticated, even if storage still holds one.
func (g *Guard) Token(ctx context.Context) (string, bool) {
	if g.State() == StateUnauthenticated {
		return "", false
	}
	return g.manager.Token(ctx)
}

// RefreshUser updates the cached profile after a profile fetch.
func (g *Guard) RefreshUser(ctx context.Context, user models.User) error {
	if err := g.manager.UpdateUser(ctx, user); err != nil {
		return err
	}
	g.mu.Lock()
	if g.state == StateAuthenticated {
		g.user = &user
	}
	g.mu.Unlock()
	return nil
}

// Subscribe registers a listener and returns a function that removes it.
func (g *Guard) Subscribe(fn Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *Guard) transition(to State, user *models.User) {
	g.mu.Lock()
	from := g.state
	g.state = to
	g.user = user
	listeners := g.snapshotListeners()
	g.mu.Unlock()

	if from != to {
		g.logger.Debug("session state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	}
	notify(listeners, to)
}

func (g *Guard) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(g.listeners))
	for _, l := range g.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, s State) {
	for _, l := range listeners {
		l(s)
	}
}
