package services

import (
	"context"
	"sync"

	"finloans/internal/core/domain"
	"finloans/internal/pkg/logger"
)

// SessionService is the single authoritative holder of the
// authenticated identity. Constructed once at process start and passed
// by reference to whatever needs it; at most one identity at a time.
type SessionService struct {
	gateway Gateway
	tokens  TokenStore

	mu      sync.RWMutex
	session domain.Session
	ready   bool
}

// NewSessionService creates a new session service
func NewSessionService(gateway Gateway, tokens TokenStore) *SessionService {
	return &SessionService{
		gateway: gateway,
		tokens:  tokens,
	}
}

// Bootstrap restores the session from the persisted token, if any. Any
// failure — no token, network error, invalid or expired token — leaves
// the session unauthenticated; auth failures additionally clear the
// persisted token. Always terminates and marks the session ready
// exactly once.
func (s *SessionService) Bootstrap(ctx context.Context) {
	defer s.markReady()

	token, err := s.tokens.Token()
	if err != nil {
		logger.Warn("could not read persisted token: %v", err)
		return
	}
	if token == "" {
		return
	}

	s.mu.Lock()
	s.session = domain.Session{Token: token}
	s.mu.Unlock()

	user, err := s.gateway.CurrentUser(ctx)
	if err != nil {
		logger.Warn("session bootstrap failed, clearing persisted token: %v", err)
		s.clearLocal()
		return
	}

	s.mu.Lock()
	s.session.User = user
	s.mu.Unlock()
	logger.Info("session restored for %s", user.Username)
}

// Login authenticates with the platform. On success the token is
// persisted and the user becomes the current identity; on failure the
// session stays unauthenticated and the error carries the server's
// message.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	token, user, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SaveToken(token); err != nil {
		// The identity still holds for this process; the next run will
		// simply prompt for credentials again.
		logger.Warn("could not persist session token: %v", err)
	}

	s.mu.Lock()
	s.session = domain.Session{Token: token, User: user}
	s.ready = true
	s.mu.Unlock()

	logger.Info("user logged in: %s", user.Username)
	return user, nil
}

// Logout notifies the server best-effort and clears the session. The
// local clear is unconditional: logout never leaves a stale token
// behind, even when the network call fails.
func (s *SessionService) Logout(ctx context.Context) {
	if s.Authenticated() {
		if err := s.gateway.Logout(ctx); err != nil {
			logger.Warn("server logout failed: %v", err)
		}
	}
	s.clearLocal()
	logger.Info("session cleared")
}

func (s *SessionService) clearLocal() {
	if err := s.tokens.Clear(); err != nil {
		logger.Warn("could not clear persisted token: %v", err)
	}
	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()
}

func (s *SessionService) markReady() {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
}

// Ready reports whether bootstrap has settled.
func (s *SessionService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// CurrentUser returns the authenticated user, if any.
func (s *SessionService) CurrentUser() (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Authenticated() {
		return nil, false
	}
	return s.session.User, true
}

// Authenticated reports whether a user is logged in.
func (s *SessionService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// Capabilities returns the role capabilities of the current user, or
// the default set when logged out.
func (s *SessionService) Capabilities() domain.RoleCapabilities {
	if user, ok := s.CurrentUser(); ok {
		return domain.CapabilitiesFor(user.Role)
	}
	return domain.CapabilitiesFor("")
}
