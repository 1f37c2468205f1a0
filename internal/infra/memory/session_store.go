package memory

import (
	"sync"

	"telegram-group-manager/internal/domain/ports/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore keeps admin conversation state in process memory.
// Sessions are transient by contract: a restart wipes them and the
// admin simply reissues the command.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]repository.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]repository.Session)}
}

func (s *SessionStore) Begin(tgID int64, cmd repository.FlowCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Starting a new flow replaces whatever was in progress.
	s.sessions[tgID] = repository.Session{Command: cmd, Step: repository.StepAwaitText}
}

func (s *SessionStore) Advance(tgID int64, step repository.FlowStep, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tgID]
	if !ok {
		return false
	}
	sess.Step = step
	sess.Text = text
	s.sessions[tgID] = sess
	return true
}

func (s *SessionStore) Current(tgID int64) (repository.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[tgID]
	return sess, ok
}

func (s *SessionStore) End(tgID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tgID)
}
