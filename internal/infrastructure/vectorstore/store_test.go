package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_UpsertAndSearch(t *testing.T) {
	c, err := NewCollection(t.TempDir(), "defects")
	require.NoError(t, err)

	c.Upsert([]Entry{
		{ID: "OSF-1", Vector: []float32{1, 0, 0}, Metadata: map[string]string{"issue_key": "OSF-1"}},
		{ID: "OSF-2", Vector: []float32{0.9, 0.1, 0}},
		{ID: "OSF-3", Vector: []float32{0, 1, 0}},
	})
	assert.Equal(t, 3, c.Count())

	matches := c.Search([]float32{1, 0, 0}, 2, 0.5)
	require.Len(t, matches, 2)
	assert.Equal(t, "OSF-1", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "OSF-2", matches[1].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestCollection_SearchMinScore(t *testing.T) {
	c, err := NewCollection(t.TempDir(), "defects")
	require.NoError(t, err)

	c.Upsert([]Entry{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
	})

	matches := c.Search([]float32{1, 0}, 10, 0.9)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}

func TestCollection_UpsertReplaces(t *testing.T) {
	c, err := NewCollection(t.TempDir(), "defects")
	require.NoError(t, err)

	c.Upsert([]Entry{{ID: "a", Vector: []float32{1, 0}, Text: "old"}})
	c.Upsert([]Entry{{ID: "a", Vector: []float32{0, 1}, Text: "new"}})

	assert.Equal(t, 1, c.Count())
	matches := c.Search([]float32{0, 1}, 1, 0.5)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Text)
}

func TestCollection_Persistence(t *testing.T) {
	dir := t.TempDir()

	c, err := NewCollection(dir, "docs")
	require.NoError(t, err)
	c.Upsert([]Entry{{ID: "a", Vector: []float32{1, 0}, Metadata: map[string]string{"filename": "oms.md"}}})
	require.NoError(t, c.Save())

	reloaded, err := NewCollection(dir, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Count())

	matches := reloaded.Search([]float32{1, 0}, 1, 0.5)
	require.Len(t, matches, 1)
	assert.Equal(t, "oms.md", matches[0].Metadata["filename"])
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestZeroVectorNeverMatches(t *testing.T) {
	c, err := NewCollection(t.TempDir(), "defects")
	require.NoError(t, err)

	c.Upsert([]Entry{{ID: "empty", Vector: []float32{0, 0}}})
	matches := c.Search([]float32{1, 0}, 5, 0.01)
	assert.Empty(t, matches)
}

func TestSimilarityPercent(t *testing.T) {
	assert.Equal(t, 87.7, SimilarityPercent(0.8765))
	assert.Equal(t, 100.0, SimilarityPercent(1.0))
	assert.Equal(t, 0.0, SimilarityPercent(0))
}
