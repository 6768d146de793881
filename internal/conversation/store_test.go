package conversation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectramedia/bettybot/internal/chat"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	history, err := store.History(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, store.Append(ctx, "conv-1", chat.User("Bonjour"), chat.Assistant("Bonjour !")))
	require.NoError(t, store.Append(ctx, "conv-1", chat.User("0601020304")))

	history, err = store.History(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, chat.RoleUser, history[0].Role)
	assert.Equal(t, "0601020304", history[2].Content)

	require.NoError(t, store.Reset(ctx, "conv-1"))
	history, err = store.History(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStoreIsolatesKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "a", chat.User("un")))
	require.NoError(t, store.Append(ctx, "b", chat.User("deux")))

	a, _ := store.History(ctx, "a")
	b, _ := store.History(ctx, "b")
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.NotEqual(t, a[0].Content, b[0].Content)
}

func TestMemoryStoreHistoryReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "a", chat.User("original")))

	history, _ := store.History(ctx, "a")
	history[0].Content = "mutated"

	again, _ := store.History(ctx, "a")
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append(ctx, "shared", chat.User("x"))
		}()
	}
	wg.Wait()

	history, err := store.History(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, history, 20)
}

func TestWindow(t *testing.T) {
	var history []chat.Turn
	for i := 0; i < 10; i++ {
		history = append(history, chat.User("m"))
	}

	assert.Len(t, Window(history, HistoryWindow), HistoryWindow)
	assert.Len(t, Window(history[:3], HistoryWindow), 3)
	assert.Empty(t, Window(nil, HistoryWindow))
}
