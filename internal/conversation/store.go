package conversation

import (
	"context"
	"sync"

	"github.com/spectramedia/bettybot/internal/chat"
)

// HistoryWindow is how many of the most recent turns the engine feeds back
// into the model. Older turns stay stored but are never re-read.
const HistoryWindow = 6

// Store keeps per-conversation turn sequences. Keys are either an explicit
// conversation id or a bot public id, whichever the caller supplied.
// Entries live until Reset; there is no expiry in the memory store.
type Store interface {
	History(ctx context.Context, key string) ([]chat.Turn, error)
	Append(ctx context.Context, key string, turns ...chat.Turn) error
	Reset(ctx context.Context, key string) error
}

// MemoryStore is the process-volatile Store used for single-instance
// deployments. Individual operations are safe under concurrency, but
// interleaved Append calls for the same key are last-writer-wins; no
// per-conversation ordering is enforced across requests.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string][]chat.Turn
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string][]chat.Turn)}
}

// History returns a copy of the stored turns for key.
func (s *MemoryStore) History(ctx context.Context, key string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.convs[key]
	out := make([]chat.Turn, len(stored))
	copy(out, stored)
	return out, nil
}

// Append adds turns to the end of the conversation.
func (s *MemoryStore) Append(ctx context.Context, key string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	s.mu.Lock()
	s.convs[key] = append(s.convs[key], turns...)
	s.mu.Unlock()
	return nil
}

// Reset drops the conversation for key.
func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.convs, key)
	s.mu.Unlock()
	return nil
}

// Window returns the most recent n turns of history.
func Window(history []chat.Turn, n int) []chat.Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
