package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lucaprotelli/bastian-project/backend/internal/model/chat"
)

// Session is one conversation thread. Its mutex serializes whole requests on the
// session; the store mutex only guards the turn slice itself.
type Session struct {
	ID        string
	CreatedAt time.Time

	reqMu sync.Mutex
}

type entry struct {
	session   *Session
	turns     []chat.Turn
	updatedAt time.Time
}

// Store keeps per-session conversation history in memory for the process lifetime.
// Entries are never evicted. When maxTurns is positive the oldest turns are trimmed in
// user/assistant pairs once the history grows past it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	maxTurns int
	now      func() time.Time
}

// NewStore creates an empty store. maxTurns <= 0 keeps the full history.
func NewStore(maxTurns int) *Store {
	if maxTurns < 0 {
		maxTurns = 0
	}
	if maxTurns%2 == 1 {
		maxTurns++
	}
	return &Store{
		sessions: make(map[string]*entry),
		maxTurns: maxTurns,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetOrCreate returns the session for id, creating an empty history on first access.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e.session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id).session
}

func (s *Store) getOrCreateLocked(id string) *entry {
	if e, ok := s.sessions[id]; ok {
		return e
	}
	now := s.now()
	e := &entry{
		session:   &Session{ID: id, CreatedAt: now},
		turns:     make([]chat.Turn, 0, 16),
		updatedAt: now,
	}
	s.sessions[id] = e
	return e
}

// Lock serializes requests for one session and returns the matching unlock.
func (s *Store) Lock(id string) func() {
	session := s.GetOrCreate(id)
	session.reqMu.Lock()
	return session.reqMu.Unlock
}

// History returns a copy of the retained turns of id, creating the session if needed.
func (s *Store) History(id string) []chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Turn(nil), s.getOrCreateLocked(id).turns...)
}

// Append adds one turn to the end of the session history and returns it stamped.
func (s *Store) Append(id string, role chat.Role, content string) chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.getOrCreateLocked(id)
	turn := chat.Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
	e.turns = append(e.turns, turn)
	e.updatedAt = turn.CreatedAt

	if s.maxTurns > 0 && len(e.turns) > s.maxTurns {
		drop := len(e.turns) - s.maxTurns
		if drop%2 == 1 {
			drop++
		}
		e.turns = append(make([]chat.Turn, 0, s.maxTurns), e.turns[drop:]...)
	}
	return turn
}

// Transcript exports the full retained history without creating the session.
func (s *Store) Transcript(id string) (chat.Transcript, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return chat.Transcript{}, false
	}
	return chat.Transcript{
		SessionID: id,
		Turns:     append([]chat.Turn{}, e.turns...),
		CreatedAt: e.session.CreatedAt,
		UpdatedAt: e.updatedAt,
	}, true
}

// Sessions returns the number of known sessions.
func (s *Store) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NewSessionID mints an opaque session identifier for clients that do not bring one.
func NewSessionID() string {
	return uuid.NewString()
}
