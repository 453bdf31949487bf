package ecs

import (
	"reflect"
	"slices"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage interface
type Storage struct {
	registry   *ComponentRegistry
	archetypes map[uint32]*Archetype
	order      []*Archetype
	locations  *intmap.Map[EntityId, location]
	nextId     EntityId

	singletons     map[reflect.Type]*singletonEntry
	singletonOrder []reflect.Type
}

// iface mirrors the runtime layout of an interface value; the data word of a
// reflect.Type is a unique pointer per type.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

type singletonEntry struct {
	dataPtr unsafe.Pointer
	value   reflect.Value
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: make(map[uint32]*Archetype),
		locations:  intmap.New[EntityId, location](256),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Create allocates a new entity with no components. Components are attached
// afterwards with Attach.
func (s *Storage) Create() EntityId {
	return s.insert(s.archetypeFor(nil), nil)
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	return s.insert(s.archetypeFor(extractComponentTypes(components)), components)
}

func (s *Storage) insert(archetype *Archetype, components []any) EntityId {
	s.nextId++
	id := s.nextId
	row := archetype.append(id, components)
	s.locations.Put(id, location{archetype: archetype, row: row})
	return id
}

// Alive reports whether id names an entity that has not been deleted.
func (s *Storage) Alive(id EntityId) bool {
	_, ok := s.locations.Get(id)
	return ok
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	loc, ok := s.locations.Get(id)
	if !ok {
		return
	}
	loc.archetype.remove(loc.row)
	s.locations.Del(id)
}

// Attach adds component to the entity, replacing any existing component of
// the same type. The entity moves to the archetype matching its new shape.
func (s *Storage) Attach(id EntityId, component any) {
	loc, ok := s.locations.Get(id)
	if !ok {
		return
	}

	compType := componentType(component)
	if col := loc.archetype.column(compType); col != -1 {
		loc.archetype.storages[col].Set(loc.row, component)
		return
	}

	types := append(slices.Clone(loc.archetype.types), compType)
	components := append(loc.archetype.componentsAt(loc.row), component)
	s.move(id, loc, s.archetypeFor(sortTypes(types)), components)
}

// Detach removes the component of compType from the entity. An entity that
// loses its last component stays alive with an empty shape.
func (s *Storage) Detach(id EntityId, compType reflect.Type) {
	loc, ok := s.locations.Get(id)
	if !ok || !loc.archetype.HasComponent(compType) {
		return
	}

	types := make([]reflect.Type, 0, len(loc.archetype.types)-1)
	for _, typ := range loc.archetype.types {
		if typ != compType {
			types = append(types, typ)
		}
	}
	s.move(id, loc, s.archetypeFor(types), loc.archetype.componentsAt(loc.row))
}

func (s *Storage) move(id EntityId, from location, to *Archetype, components []any) {
	row := to.append(id, components)
	from.archetype.remove(from.row)
	s.locations.Put(id, location{archetype: to, row: row})
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	loc, ok := s.locations.Get(id)
	if !ok {
		return nil
	}
	return loc.archetype.GetComponent(loc.row, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	loc, ok := s.locations.Get(id)
	if !ok {
		return false
	}
	return loc.archetype.HasComponent(compType)
}

// Archetypes returns every archetype in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// Compact removes the holes left by deleted entities from fragmented archetypes.
// Pointers obtained from views or queries before the call must not be reused.
func (s *Storage) Compact() {
	for _, archetype := range s.order {
		if !archetype.fragmented() {
			continue
		}
		archetype.compact(func(id EntityId, row int) {
			s.locations.Put(id, location{archetype: archetype, row: row})
		})
	}
}

// archetypeFor returns the archetype for the sorted types, creating it on demand
func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	hash := hashTypesToUint32(types)
	for {
		archetype, ok := s.archetypes[hash]
		if !ok {
			break
		}
		if slices.Equal(archetype.types, types) {
			return archetype
		}
		hash++
	}

	archetype := newArchetype(uint32(len(s.order)+1), hash, types, s.registry)
	s.archetypes[hash] = archetype
	s.order = append(s.order, archetype)
	return archetype
}

// AddSingleton stores value as the single instance of its type, replacing any
// previous instance.
func (s *Storage) AddSingleton(value any) {
	typ := reflect.TypeOf(value)
	if typ == nil {
		panic("cannot add nil singleton")
	}

	if entry, ok := s.singletons[typ]; ok {
		entry.value.Elem().Set(reflect.ValueOf(value))
		return
	}

	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.ValueOf(value))
	s.singletons[typ] = &singletonEntry{
		dataPtr: ptr.UnsafePointer(),
		value:   ptr,
	}
	s.singletonOrder = append(s.singletonOrder, typ)
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

// ReadSingleton points target (a **T) at the singleton of type T.
// Returns false when no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	entry := s.singletons[ptr.Elem().Type().Elem()]
	if entry == nil {
		return false
	}
	ptr.Elem().Set(entry.value)
	return true
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}
		if slices.Contains(types, compType) {
			panic("duplicate component type " + compType.String())
		}

		types = append(types, compType)
	}
	return sortTypes(types)
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		ptr := (*iface)(unsafe.Pointer(&t)).data
		val := uint32(uintptr(ptr))
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uint64(uintptr(ptr)) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component of type T, or nil when absent.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
