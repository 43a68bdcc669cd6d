package chat_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/lucaprotelli/bastian-project/backend/internal/model/chat"
	chat "github.com/lucaprotelli/bastian-project/backend/internal/service/chat"
)

func TestStoreGetOrCreateIsLazyAndStable(t *testing.T) {
	store := chat.NewStore(0)

	_, ok := store.Transcript("s1")
	assert.False(t, ok)

	first := store.GetOrCreate("s1")
	second := store.GetOrCreate("s1")
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.Sessions())
	assert.Empty(t, store.History("s1"))
}

func TestStoreAppendKeepsOrder(t *testing.T) {
	store := chat.NewStore(0)

	store.Append("s1", model.RoleUser, "ciao")
	turn := store.Append("s1", model.RoleAssistant, "arrr")

	assert.NotEmpty(t, turn.ID)
	assert.False(t, turn.CreatedAt.IsZero())

	history := store.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, "ciao", history[0].Content)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
	assert.True(t, model.Alternates(history))
}

func TestStoreHistoryIsACopy(t *testing.T) {
	store := chat.NewStore(0)
	store.Append("s1", model.RoleUser, "a")

	history := store.History("s1")
	history[0].Content = "changed"

	assert.Equal(t, "a", store.History("s1")[0].Content)
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	store := chat.NewStore(0)
	store.Append("a", model.RoleUser, "one")
	store.Append("b", model.RoleUser, "two")

	assert.Len(t, store.History("a"), 1)
	assert.Equal(t, "two", store.History("b")[0].Content)
}

func TestStoreUnboundedByDefault(t *testing.T) {
	store := chat.NewStore(0)
	for i := 0; i < 100; i++ {
		store.Append("s1", model.RoleUser, "q")
		store.Append("s1", model.RoleAssistant, "a")
	}
	assert.Len(t, store.History("s1"), 200)
}

func TestStoreCapacityTrimsPairs(t *testing.T) {
	store := chat.NewStore(4)
	for _, content := range []string{"u1", "a1", "u2", "a2", "u3", "a3"} {
		role := model.RoleUser
		if content[0] == 'a' {
			role = model.RoleAssistant
		}
		store.Append("s1", role, content)
	}

	history := store.History("s1")
	require.Len(t, history, 4)
	assert.Equal(t, "u2", history[0].Content)
	assert.Equal(t, "a3", history[3].Content)
	assert.True(t, model.Alternates(history))
}

func TestStoreTranscript(t *testing.T) {
	store := chat.NewStore(0)
	store.Append("s1", model.RoleUser, "x")

	tr, ok := store.Transcript("s1")
	require.True(t, ok)
	assert.Equal(t, "s1", tr.SessionID)
	assert.Len(t, tr.Turns, 1)
	assert.False(t, tr.UpdatedAt.Before(tr.CreatedAt))
}

func TestStoreLockSerializesSameSession(t *testing.T) {
	store := chat.NewStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock("s1")
			defer unlock()
			store.Append("s1", model.RoleUser, "q")
			store.Append("s1", model.RoleAssistant, "a")
		}()
	}
	wg.Wait()

	history := store.History("s1")
	assert.Len(t, history, 100)
	assert.True(t, model.Alternates(history))
}

func TestNewSessionIDIsUnique(t *testing.T) {
	assert.NotEqual(t, chat.NewSessionID(), chat.NewSessionID())
}
