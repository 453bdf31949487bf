package ecs

import (
	"cmp"
	"iter"
	"slices"
)

// Query wraps a View with caching for repeated iteration inside systems.
// The matching archetypes are cached until new archetypes appear, and each
// Execute snapshots the matching entities sorted by EntityId, which is their
// global creation order.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

type queryRow[T any] struct {
	id    EntityId
	value T
}

// NewQuery creates a new Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute snapshots the matching entities for this pass.
// Called automatically by the Scheduler right before the owning system runs.
func (q *Query[T]) Execute() {
	if count := len(q.storage.order); count != q.lastArchetypeCount {
		q.cachedArchetypes = q.cachedArchetypes[:0]
		for _, archetype := range q.storage.order {
			if q.view.matchesArchetype(archetype) {
				q.cachedArchetypes = append(q.cachedArchetypes, archetype)
			}
		}
		q.lastArchetypeCount = count
	}

	var rows []queryRow[T]
	for _, archetype := range q.cachedArchetypes {
		q.view.iterArchetype(archetype, func(id EntityId, item T) bool {
			rows = append(rows, queryRow[T]{id: id, value: item})
			return true
		})
	}
	slices.SortFunc(rows, func(a, b queryRow[T]) int {
		return cmp.Compare(a.id, b.id)
	})

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]
	for _, row := range rows {
		q.cachedEntities = append(q.cachedEntities, row.id)
		q.cachedComponents = append(q.cachedComponents, row.value)
	}
	q.cacheValid = true
}

func (q *Query[T]) mustBeValid(method string) {
	if !q.cacheValid {
		panic("Query." + method + "() called before Query.Execute()")
	}
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeValid("Iter")

	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeValid("Values")

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// First returns the oldest matching entity.
func (q *Query[T]) First() (EntityId, T, bool) {
	q.mustBeValid("First")

	if len(q.cachedEntities) == 0 {
		var zero T
		return 0, zero, false
	}
	return q.cachedEntities[0], q.cachedComponents[0], true
}

// Len returns the number of entities captured by the last Execute.
func (q *Query[T]) Len() int {
	q.mustBeValid("Len")
	return len(q.cachedEntities)
}
