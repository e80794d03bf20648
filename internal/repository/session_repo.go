package repository

import (
	"sync"

	"NPTEL-Assignment-Analyzer/internal/auth"
	"NPTEL-Assignment-Analyzer/internal/model"

	"go.uber.org/zap"
)

// Session is the single in-memory session: UI state plus the credentials that
// unlocked it.
type Session struct {
	State       *model.AppState
	Credentials *auth.Credentials
}

// SetCredentials swaps in creds and wipes whatever was held before.
func (s *Session) SetCredentials(creds *auth.Credentials) {
	if s.Credentials != nil && s.Credentials != creds {
		s.Credentials.Clear()
	}
	s.Credentials = creds
}

type SessionRepository struct {
	mu      sync.RWMutex
	session Session
	log     *zap.Logger
}

func NewSessionRepository(log *zap.Logger) *SessionRepository {
	if log == nil {
		log = zap.NewNop()
	}
	log.Named("session").Debug("session repository initialised")
	return &SessionRepository{
		session: Session{State: model.NewAppState()},
		log:     log.Named("session"),
	}
}

// View returns a copy that is safe to render without holding the lock.
func (r *SessionRepository) View() model.StateView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session.State.View()
}

// BasicToken returns the Basic token for the held credentials, or false when
// nobody is signed in.
func (r *SessionRepository) BasicToken() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.session.State.Authenticated || r.session.Credentials.Empty() {
		return "", false
	}
	return r.session.Credentials.BasicToken(), true
}

// Update runs fn under the write lock. fn must not block on I/O.
func (r *SessionRepository) Update(fn func(s *Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fn(&r.session); err != nil {
		r.log.Debug("session update refused", zap.Error(err))
		return err
	}
	return nil
}
