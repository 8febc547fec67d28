package agent

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkKind names what a work item is doing.
type WorkKind string

const (
	WorkTask     WorkKind = "task"
	WorkFeedback WorkKind = "feedback"
)

// WorkItem is an operation that has been accepted and not yet finished.
type WorkItem struct {
	ID      uuid.UUID
	Kind    WorkKind
	Input   string
	Started time.Time
}

// Registry tracks in-flight work items for display and bookkeeping.
type Registry struct {
	mu    sync.Mutex
	items map[uuid.UUID]WorkItem
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[uuid.UUID]WorkItem)}
}

// Add registers a new item and returns it.
func (r *Registry) Add(kind WorkKind, input string) WorkItem {
	item := WorkItem{ID: uuid.New(), Kind: kind, Input: input, Started: time.Now()}
	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()
	return item
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}

// List returns the items oldest first.
func (r *Registry) List() []WorkItem {
	r.mu.Lock()
	out := make([]WorkItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Started.Equal(out[j].Started) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Started.Before(out[j].Started)
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
