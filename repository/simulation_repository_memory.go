package repository

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"emprunt/domain"
)

type historyEntry struct {
	id      string
	result  domain.SimulationResult
	savedAt time.Time
}

// SimulationRepositoryMemory is an in-memory implementation of
// SimulationRepository. It keeps at most maxEntries results (oldest evicted
// first) and drops results older than ttl. Zero disables either bound.
type SimulationRepositoryMemory struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	order      *list.List
	index      map[string]*list.Element
	now        func() time.Time
}

// NewSimulationRepositoryMemory creates a new bounded in-memory simulation repository.
func NewSimulationRepositoryMemory(maxEntries int, ttl time.Duration) *SimulationRepositoryMemory {
	return &SimulationRepositoryMemory{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		index:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Save stores the simulation result in memory and returns its id.
func (r *SimulationRepositoryMemory) Save(
	input domain.SimulationInputs,
	result domain.SimulationResult,
) (string, error) {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired()
	r.index[id] = r.order.PushBack(&historyEntry{id: id, result: result, savedAt: r.now()})
	for r.maxEntries > 0 && r.order.Len() > r.maxEntries {
		r.remove(r.order.Front())
	}
	return id, nil
}

// Get returns a previously saved result.
func (r *SimulationRepositoryMemory) Get(id string) (domain.SimulationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired()
	el, ok := r.index[id]
	if !ok {
		return domain.SimulationResult{}, ErrNotFound
	}
	return el.Value.(*historyEntry).result, nil
}

// Len reports the number of stored results.
func (r *SimulationRepositoryMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

// evictExpired drops entries from the front while they are older than ttl.
// Entries are kept in save order, so the scan stops at the first live one.
func (r *SimulationRepositoryMemory) evictExpired() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for el := r.order.Front(); el != nil; el = r.order.Front() {
		if el.Value.(*historyEntry).savedAt.After(cutoff) {
			return
		}
		r.remove(el)
	}
}

func (r *SimulationRepositoryMemory) remove(el *list.Element) {
	entry := r.order.Remove(el).(*historyEntry)
	delete(r.index, entry.id)
}
