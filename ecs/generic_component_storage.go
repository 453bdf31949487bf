package ecs

import (
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be stored or joined.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// Registered reports whether the given component type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

// mustFactory returns the factory for t and panics when t was never registered.
func (r *ComponentRegistry) mustFactory(t reflect.Type) func() iComponentStorage {
	factory, ok := r.factories[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return factory
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of type T in fixed-size blocks.
// Blocks are heap allocated individually so pointers handed out by Get stay
// valid while the column grows.
type genericComponentStorage[T any] struct {
	blocks []*[genericBlockSize]T
	length int
}

func (cs *genericComponentStorage[T]) slot(index int) *T {
	return &cs.blocks[index/genericBlockSize][index%genericBlockSize]
}

func toConcrete[T any](item any) (T, bool) {
	if ptr, ok := item.(*T); ok {
		return *ptr, true
	}
	val, ok := item.(T)
	return val, ok
}

// Append adds a component at the end of the column and returns its row.
func (cs *genericComponentStorage[T]) Append(item any) int {
	value, ok := toConcrete[T](item)
	if !ok {
		return -1
	}

	index := cs.length
	if index/genericBlockSize >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
	}
	*cs.slot(index) = value
	cs.length++
	return index
}

// Set overwrites the component at index.
func (cs *genericComponentStorage[T]) Set(index int, item any) bool {
	if index < 0 || index >= cs.length {
		return false
	}
	value, ok := toConcrete[T](item)
	if !ok {
		return false
	}
	*cs.slot(index) = value
	return true
}

// Clear zeroes the slot so the column does not keep references alive.
func (cs *genericComponentStorage[T]) Clear(index int) {
	if index < 0 || index >= cs.length {
		return
	}
	var zero T
	*cs.slot(index) = zero
}

// Get returns a pointer to the component at the given row.
func (cs *genericComponentStorage[T]) Get(index int) any {
	if index < 0 || index >= cs.length {
		return nil
	}
	return cs.slot(index)
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.length
}

// Compact drops every row whose keep flag is false, preserving the order of
// the survivors. Surviving values are copied into fresh blocks.
func (cs *genericComponentStorage[T]) Compact(keep []bool) {
	var blocks []*[genericBlockSize]T
	writePos := 0

	for readIdx := 0; readIdx < cs.length; readIdx++ {
		if readIdx < len(keep) && !keep[readIdx] {
			continue
		}
		if writePos/genericBlockSize >= len(blocks) {
			blocks = append(blocks, new([genericBlockSize]T))
		}
		blocks[writePos/genericBlockSize][writePos%genericBlockSize] = *cs.slot(readIdx)
		writePos++
	}

	cs.blocks = blocks
	cs.length = writePos
}
