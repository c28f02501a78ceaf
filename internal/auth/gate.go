// Package auth decides between the login screen and the admin dashboard and
// guards the admin routes.
package auth

import (
	"context"
	"sync"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// State is the gate's visual state. Loading is a real third state: while the
// session check is outstanding neither branch may render.
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "loading"
	}
}

// Gate performs the session check for the admin route and moves between the
// login screen and the dashboard without navigation.
type Gate struct {
	client dataclient.Client
	logger *logging.Logger

	mu      sync.Mutex
	state   State
	session *dataclient.Session
}

// NewGate creates a gate in the loading state.
func NewGate(client dataclient.Client, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gate{
		client: client,
		logger: logger,
		state:  StateLoading,
	}
}

// Resolve settles the initial session check with whatever session was
// restored, if any.
func (g *Gate) Resolve(sess *dataclient.Session) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if sess.Valid() {
		g.session = sess
		g.state = StateAuthenticated
	} else {
		g.session = nil
		g.state = StateAnonymous
	}
	return g.state
}

// SignIn exchanges credentials for a session and renders the dashboard on
// success, with no reload in between.
func (g *Gate) SignIn(ctx context.Context, email, password string) (*dataclient.Session, error) {
	sess, err := g.client.SignIn(ctx, email, password)
	if err != nil {
		g.mu.Lock()
		g.state = StateAnonymous
		g.session = nil
		g.mu.Unlock()
		return nil, err
	}
	g.mu.Lock()
	g.state = StateAuthenticated
	g.session = sess
	g.mu.Unlock()
	g.logger.Info("admin signed in", "user", sess.User.Email)
	return sess, nil
}

// SignOut clears the session and returns control to the login form. The
// local session is dropped even when the backend revocation fails.
func (g *Gate) SignOut(ctx context.Context) {
	g.mu.Lock()
	sess := g.session
	g.session = nil
	g.state = StateAnonymous
	g.mu.Unlock()

	if err := g.client.SignOut(ctx, sess); err != nil {
		g.logger.Error("failed to revoke session", "error", err)
	}
}

// State returns the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the active session, if any.
func (g *Gate) Session() *dataclient.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}
