package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/logger"
)

// Session holds the store of a single browser session.
type Session struct {
	Store        *Store
	LastActivity time.Time
}

// StoreFactory builds the store for a new session.
type StoreFactory func(ctx context.Context) (*Store, error)

// SeededStoreFactory returns a factory that fills every new store with the demo dataset.
func SeededStoreFactory(opts ...Option) StoreFactory {
	return func(ctx context.Context) (*Store, error) {
		return NewStore(ctx, DefaultSeed(time.Now()), opts...)
	}
}

// SessionService keeps one isolated store per session id.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session // Key: sessionID
	newStore StoreFactory
	now      func() time.Time
}

// NewSessionService creates an empty registry whose sessions get stores from newStore.
func NewSessionService(newStore StoreFactory) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		newStore: newStore,
		now:      time.Now,
	}
}

// Store returns the store of sessionID, creating it on first use, and marks the session active.
func (s *SessionService) Store(ctx context.Context, sessionID string) (*Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		store, err := s.newStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("create store for session %s: %w", sessionID, err)
		}
		session = &Session{Store: store}
		s.sessions[sessionID] = session
		logger.Infof("Created session: %s", sessionID)
	}
	session.LastActivity = s.now()
	return session.Store, nil
}

// CleanUpInactiveSessions removes sessions idle for longer than maxIdle and reports how many went.
func (s *SessionService) CleanUpInactiveSessions(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for sessionID, session := range s.sessions {
		if now.Sub(session.LastActivity) > maxIdle {
			delete(s.sessions, sessionID)
			removed++
			logger.Infof("Removed inactive session: %s, idle since %s", sessionID, session.LastActivity.Format(time.RFC3339))
		}
	}
	return removed
}

// ClearSession drops all data of sessionID.
func (s *SessionService) ClearSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	logger.Infof("Cleared session: %s", sessionID)
}

// Count returns the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
