package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// UserStore defines the account persistence the service depends on.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore defines the session persistence the service depends on.
type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// Listener receives auth-state change notifications. The session is nil when
// the new state is anonymous.
type Listener func(state State, session *models.Session)

// Service authenticates users and owns the process-wide auth state machine.
type Service struct {
	mu        sync.Mutex
	users     UserStore
	sessions  SessionStore
	logger    *log.Logger
	state     State
	session   *models.Session
	ttl       time.Duration
	listeners []Listener
	now       func() time.Time
}

// NewService creates a Service with the given stores and session lifetime.
func NewService(users UserStore, sessions SessionStore, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{
		users:    users,
		sessions: sessions,
		logger:   logger,
		state:    StateAnonymous,
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnStateChange registers a listener for auth-state transitions.
func (s *Service) OnStateChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the current authentication state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the active session, expiring it first when its lifetime
// has passed. Returns nil when anonymous.
func (s *Service) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	if s.session.Expired(s.now()) {
		s.logger.Warn("session expired", "user_id", s.session.UserID)
		s.transition(EventSessionExpired, nil)
		return nil
	}
	return s.session
}

// SignUp registers a new account and opens a session for it.
//
// Duplicate registration surfaces shared.ErrEmailRegistered and short
// passwords shared.ErrWeakPassword, both recognized by [TranslateError].
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	if len(password) < minPasswordLength {
		return nil, shared.ErrWeakPassword
	}

	if err := s.begin(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.fail()
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		s.fail()
		return nil, err
	}

	return s.openSession(ctx, user)
}

// SignIn authenticates an existing account and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.fail()
		return nil, shared.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.fail()
		return nil, shared.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// SignOut closes the active session. Signing out while anonymous is a no-op.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, s.session.Token); err != nil {
		s.logger.Error("failed to delete session", "err", err)
	}
	s.transition(EventLogout, nil)
	return nil
}

// Restore resumes a previously issued session by token, e.g. between CLI
// invocations. Expired sessions are removed and surface shared.ErrSessionExpired.
func (s *Service) Restore(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Error("failed to delete expired session", "err", err)
		}
		return nil, shared.ErrSessionExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replaying login events keeps the machine honest on restore.
	s.transition(EventLoginStarted, nil)
	s.transition(EventLoginSucceeded, session)
	return session, nil
}

// begin moves the machine into the authenticating state.
func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAuthenticated {
		return fmt.Errorf("already authenticated")
	}
	s.state = StateAnonymous
	s.transition(EventLoginStarted, nil)
	return nil
}

// fail returns the machine to anonymous after a failed attempt.
func (s *Service) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transition(EventLoginFailed, nil)
}

// openSession issues a session token for a verified user.
func (s *Service) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	now := s.now()
	session := models.Session{
		Token:     shared.GenerateID(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.fail()
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transition(EventLoginSucceeded, &session)
	s.logger.Info("signed in", "user_id", user.ID)
	return &session, nil
}

// transition applies an event and notifies listeners. Callers must hold mu.
func (s *Service) transition(event Event, session *models.Session) {
	next, err := apply(s.state, event)
	if err != nil {
		s.logger.Error("auth state machine", "err", err)
		return
	}

	s.state = next
	if next == StateAnonymous {
		s.session = nil
	} else if session != nil {
		s.session = session
	}

	for _, fn := range s.listeners {
		fn(s.state, s.session)
	}
}
