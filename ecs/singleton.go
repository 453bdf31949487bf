package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton provides access to the one instance of T held by a Storage.
// Singletons are not attached to any entity; use them for per-round state
// that every system shares, such as input or score.
type Singleton[T any] struct {
	storage      *Storage
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for the singleton of type T, creating it
// from initializer (or the zero value) when the storage has none yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentPtr = nil
	s.resolve()
}

func (s *Singleton[T]) resolve() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	}
}

// Get returns a pointer to the singleton, or nil if it has not been added.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.resolve()
	}
	return (*T)(s.componentPtr)
}

// MustGet is Get for singletons that are required to exist.
func (s *Singleton[T]) MustGet() *T {
	value := s.Get()
	if value == nil {
		panic("singleton " + reflect.TypeFor[T]().String() + " not found")
	}
	return value
}

// Set overwrites the singleton wholesale, creating it when missing.
func (s *Singleton[T]) Set(value T) {
	if current := s.Get(); current != nil {
		*current = value
		return
	}
	s.storage.AddSingleton(value)
	s.resolve()
}

// Exists reports whether the singleton has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
