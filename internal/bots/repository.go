package bots

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotFound is returned when no bot exists for a public identifier.
var ErrNotFound = errors.New("bot not found")

// Repository defines the read/write contract for the bot record store.
type Repository interface {
	Get(ctx context.Context, publicID string) (*Bot, error)
	Upsert(ctx context.Context, bot *Bot) error
}

// MemoryRepository is an in-memory Repository for tests and single-process
// dev runs.
type MemoryRepository struct {
	mu   sync.RWMutex
	bots map[string]Bot
}

// NewMemoryRepository creates a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bots: make(map[string]Bot)}
}

// Get retrieves a bot by public id.
func (r *MemoryRepository) Get(ctx context.Context, publicID string) (*Bot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bot, ok := r.bots[publicID]
	if !ok {
		return nil, ErrNotFound
	}
	out := bot
	return &out, nil
}

// Upsert stores or replaces a bot keyed by its public id.
func (r *MemoryRepository) Upsert(ctx context.Context, bot *Bot) error {
	if bot == nil || bot.PublicID == "" {
		return errors.New("bots: public id required")
	}
	r.mu.Lock()
	r.bots[bot.PublicID] = *bot
	r.mu.Unlock()
	return nil
}

// Resolve looks a public identifier up in the repository first, then falls
// back to the demo catalog: an exact demo public id, or a derived id whose
// prefix names a demo bot. A nil bot with nil error means the id is unknown.
func Resolve(ctx context.Context, repo Repository, publicID string) (*Bot, error) {
	if publicID == "" {
		return nil, nil
	}

	if repo != nil {
		bot, err := repo.Get(ctx, publicID)
		if err == nil {
			return bot, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	if key := baseKey(publicID); key != "" {
		if base, ok := Demo(key); ok {
			base.PublicID = publicID
			return &base, nil
		}
		return nil, nil
	}

	for key, base := range demoCatalog {
		if base.PublicID == publicID || strings.EqualFold(key, publicID) {
			out := base
			out.PublicID = publicID
			return &out, nil
		}
	}
	return nil, nil
}
