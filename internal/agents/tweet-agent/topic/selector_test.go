package topic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicsNamed(names ...string) []Topic {
	out := make([]Topic, 0, len(names))
	for _, n := range names {
		out = append(out, Topic{Name: n})
	}
	return out
}

func TestSelector_NoAdjacentRepeats(t *testing.T) {
	s, err := NewSelector(topicsNamed("A", "B"), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	prev := s.Select()
	for i := 1; i < 10; i++ {
		cur := s.Select()
		assert.NotEqual(t, prev.Name, cur.Name, "selection %d repeated %q", i, cur.Name)
		prev = cur
	}
}

func TestSelector_NoAdjacentRepeatsLargeCatalog(t *testing.T) {
	topics, err := DefaultCatalog()
	require.NoError(t, err)

	for seed := int64(0); seed < 20; seed++ {
		s, err := NewSelector(topics, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		last := -1
		for i := 0; i < 50; i++ {
			s.Select()
			cur := s.State().Last
			require.NotEqual(t, last, cur)
			last = cur
		}
	}
}

func TestSelector_SingleTopicAlwaysReturned(t *testing.T) {
	s, err := NewSelector(topicsNamed("only"), nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.Equal(t, "only", s.Select().Name)
	}
	assert.Equal(t, 0, s.State().Last)
}

func TestSelector_EmptyCatalogRejected(t *testing.T) {
	_, err := NewSelector(nil, nil)
	assert.Error(t, err)
}

func TestSelector_ResumesFromState(t *testing.T) {
	topics := topicsNamed("A", "B")
	s, err := NewSelectorFromState(topics, SelectorState{Last: 0}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, "B", s.Select().Name)

	s, err = NewSelectorFromState(topics, SelectorState{Last: 9}, nil)
	require.NoError(t, err)
	assert.Equal(t, NoSelection(), s.State())
}

func TestSelector_Pick(t *testing.T) {
	s, err := NewSelector(topicsNamed("A", "B", "C"), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	got, err := s.Pick(" b ")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, 1, s.State().Last)
	assert.NotEqual(t, "B", s.Select().Name)

	_, err = s.Pick("Z")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	topics := topicsNamed("Systems languages", "Databases")

	i, ok := Find(topics, "databases")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = Find(topics, "cobol")
	assert.False(t, ok)
}
