package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaprotelli/bastian-project/backend/internal/model/chat"
)

func TestSeedPersonasAreValid(t *testing.T) {
	for _, p := range Seed() {
		require.NoError(t, p.Validate(), p.ID)
	}
}

func TestSeedBastianHasTwelveExamples(t *testing.T) {
	store := MustSeedStore()
	p, ok := store.FindByID("bastian")
	require.True(t, ok)
	assert.Equal(t, "Bastian Contrario", p.Name)
	assert.Len(t, p.Examples, 12)
	assert.Equal(t, Sampling{Temperature: 1.2, TopP: 0.95}, p.Sampling)
	assert.Equal(t, chat.UserTurn("Il cielo è blu."), p.Examples[0])
}

func TestResolveUnknownFallsBackToDefault(t *testing.T) {
	store := MustSeedStore()
	def, _ := store.FindByID(DefaultID)

	for _, id := range []string{"", "unknown", "Bastian", "pirata "} {
		got, fallback := store.Resolve(id)
		assert.True(t, fallback, id)
		assert.Equal(t, def, got, id)
	}
}

func TestResolveKnownPersona(t *testing.T) {
	store := MustSeedStore()

	got, fallback := store.Resolve("alieno")
	assert.False(t, fallback)
	assert.Equal(t, "alieno", got.ID)
	assert.Equal(t, Sampling{Temperature: 0.5, TopP: 1.0}, got.Sampling)
}

func TestLookupIsIdempotentAndNotMutable(t *testing.T) {
	store := MustSeedStore()

	first, _ := store.Resolve("pirata")
	first.Examples[0].Content = "tampered"
	first.Examples = append(first.Examples, chat.UserTurn("extra"))
	first.SystemPrompt = "tampered"

	second, _ := store.Resolve("pirata")
	third, _ := store.Resolve("pirata")
	assert.Equal(t, second, third)
	assert.Equal(t, "Ciao, come stai?", second.Examples[0].Content)
	assert.Len(t, second.Examples, 10)
	assert.NotEqual(t, "tampered", second.SystemPrompt)
}

func TestNewMemoryStoreRejectsInvalidInput(t *testing.T) {
	valid := Seed()[0]

	_, err := NewMemoryStore([]Persona{valid}, "missing")
	assert.Error(t, err)

	_, err = NewMemoryStore([]Persona{valid, valid}, valid.ID)
	assert.Error(t, err)

	noExamples := valid.Clone()
	noExamples.Examples = nil
	_, err = NewMemoryStore([]Persona{noExamples}, valid.ID)
	assert.Error(t, err)

	badOrder := valid.Clone()
	badOrder.Examples = []chat.Turn{chat.AssistantTurn("hi"), chat.UserTurn("hello")}
	_, err = NewMemoryStore([]Persona{badOrder}, valid.ID)
	assert.Error(t, err)

	badSampling := valid.Clone()
	badSampling.Sampling.TopP = 0
	_, err = NewMemoryStore([]Persona{badSampling}, valid.ID)
	assert.Error(t, err)
}

func TestListIsSortedByID(t *testing.T) {
	store := MustSeedStore()
	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"alieno", "bastian", "pirata"}, []string{list[0].ID, list[1].ID, list[2].ID})
}
