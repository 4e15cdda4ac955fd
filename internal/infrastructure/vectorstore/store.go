package vectorstore

import (
	"container/heap"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// Entry is a single indexed item: a normalized vector plus its payload
type Entry struct {
	ID       string            `json:"id"`
	Vector   []float32         `json:"vector"`
	Metadata map[string]string `json:"metadata"`
	Text     string            `json:"text"`
}

// Match is a search hit with its cosine similarity in [0, 1]
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
	Text     string
}

// Collection is an in-memory cosine index persisted as a JSON file.
// Vectors are normalized on insert so similarity is a dot product.
type Collection struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry
}

// NewCollection creates a collection persisted at dir/name.json and
// loads any existing snapshot
func NewCollection(dir, name string) (*Collection, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vector store dir: %w", err)
	}
	c := &Collection{
		path:    filepath.Join(dir, name+".json"),
		entries: make(map[string]Entry),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collection) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read vector store: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse vector store %s: %w", c.path, err)
	}
	for _, e := range entries {
		c.entries[e.ID] = e
	}
	return nil
}

// Save writes the collection snapshot to disk
func (c *Collection) Save() error {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode vector store: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vector store: %w", err)
	}
	return os.Rename(tmp, c.path)
}

// Upsert replaces entries by ID, normalizing their vectors
func (c *Collection) Upsert(entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		e.Vector = Normalize(e.Vector)
		c.entries[e.ID] = e
	}
}

// Delete removes an entry by ID
func (c *Collection) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Clear drops all entries
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// All returns every entry as an unscored match, for exhaustive scans
func (c *Collection) All() []Match {
	c.mu.RLock()
	defer c.mu.RUnlock()
	matches := make([]Match, 0, len(c.entries))
	for _, e := range c.entries {
		matches = append(matches, Match{ID: e.ID, Metadata: e.Metadata, Text: e.Text})
	}
	return matches
}

// Count returns the number of indexed entries
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// matchHeap keeps the worst match on top so it can be evicted
type matchHeap []Match

func (h matchHeap) Len() int           { return len(h) }
func (h matchHeap) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h matchHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *matchHeap) Push(x any)        { *h = append(*h, x.(Match)) }

func (h *matchHeap) Pop() any {
	old := *h
	n := len(old)
	m := old[n-1]
	*h = old[:n-1]
	return m
}

// Search returns up to topK entries with similarity >= minScore,
// best first
func (c *Collection) Search(query []float32, topK int, minScore float64) []Match {
	if topK <= 0 {
		return nil
	}
	q := Normalize(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	h := &matchHeap{}
	heap.Init(h)
	for _, e := range c.entries {
		score := dot(q, e.Vector)
		if score < minScore {
			continue
		}
		heap.Push(h, Match{ID: e.ID, Score: score, Metadata: e.Metadata, Text: e.Text})
		if h.Len() > topK {
			heap.Pop(h)
		}
	}

	matches := make([]Match, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		matches[i] = heap.Pop(h).(Match)
	}
	return matches
}

func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales a vector to unit length. Zero vectors pass through
// unchanged so empty texts never match anything.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// SimilarityPercent converts a cosine score to a percentage with one
// decimal place, the shape shown to users
func SimilarityPercent(score float64) float64 {
	return math.Round(score*1000) / 10
}
