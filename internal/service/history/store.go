package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmahub/assistant-backend/internal/model/chat"
)

// MaxTurns bounds the history kept per session. Turns enter in user/model
// pairs, so the list length stays even.
const MaxTurns = 10

// Store keeps conversation history keyed by session identifier.
// Implementations must serialize operations on the same session while
// leaving distinct sessions free to proceed concurrently.
type Store interface {
	// Get returns the session's turns oldest-first, empty if unseen.
	Get(sessionID string) []chat.Turn
	// Append records one user/model exchange, trimming the oldest turns
	// once the session exceeds MaxTurns.
	Append(sessionID, userText, modelText string)
	// Clear forgets the session entirely. Unknown sessions are a no-op.
	Clear(sessionID string)
}

// MemoryStore is the in-process Store. History is advisory prompt context,
// so losing it on restart is acceptable.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	turns []chat.Turn
}

// NewMemoryStore bootstraps an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*session)}
}

func (s *MemoryStore) Get(sessionID string) []chat.Turn {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return []chat.Turn{}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	copied := make([]chat.Turn, len(entry.turns))
	copy(copied, entry.turns)
	return copied
}

func (s *MemoryStore) Append(sessionID, userText, modelText string) {
	entry := s.getOrCreate(sessionID)
	now := time.Now().UTC()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.turns = append(entry.turns,
		chat.Turn{ID: uuid.NewString(), Role: chat.RoleUser, Text: userText, CreatedAt: now},
		chat.Turn{ID: uuid.NewString(), Role: chat.RoleModel, Text: modelText, CreatedAt: now},
	)
	if excess := len(entry.turns) - MaxTurns; excess > 0 {
		entry.turns = append(entry.turns[:0:0], entry.turns[excess:]...)
	}
}

func (s *MemoryStore) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// getOrCreate lazily provisions the session entry. The map lock is held only
// for the lookup so appends on other sessions never wait on each other.
func (s *MemoryStore) getOrCreate(sessionID string) *session {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok = s.sessions[sessionID]; ok {
		return entry
	}
	entry = &session{turns: make([]chat.Turn, 0, MaxTurns)}
	s.sessions[sessionID] = entry
	return entry
}
