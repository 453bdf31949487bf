package ecs

import (
	"reflect"
	"slices"
	"sort"
	"strings"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity sharing one exact combination of component types.
// Rows are kept in insertion order; deleted rows stay as holes until Compact.
type Archetype struct {
	id       uint32
	hash     uint32
	types    []reflect.Type
	storages []iComponentStorage
	entities []EntityId
	live     int
}

// newArchetype creates an archetype for the given sorted component types
func newArchetype(id, hash uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		hash:     hash,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
	}

	for idx, typ := range types {
		a.storages[idx] = registry.mustFactory(typ)()
	}

	return a
}

// append stores the components for entity and returns the new row
func (a *Archetype) append(entity EntityId, components []any) int {
	row := len(a.entities)
	for idx, typ := range a.types {
		comp := findComponent(components, typ)
		if comp == nil || a.storages[idx].Append(comp) != row {
			panic("archetype " + a.String() + ": missing or mistyped component " + typ.String())
		}
	}
	a.entities = append(a.entities, entity)
	a.live++
	return row
}

// remove turns the row into a hole
func (a *Archetype) remove(row int) {
	if row < 0 || row >= len(a.entities) || a.entities[row] == 0 {
		return
	}
	for _, storage := range a.storages {
		storage.Clear(row)
	}
	a.entities[row] = 0
	a.live--
}

// componentsAt returns pointers to every component stored on row
func (a *Archetype) componentsAt(row int) []any {
	components := make([]any, len(a.storages))
	for i, storage := range a.storages {
		components[i] = storage.Get(row)
	}
	return components
}

func (a *Archetype) column(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// GetComponent returns a pointer to the component of compType on row, or nil
func (a *Archetype) GetComponent(row int, compType reflect.Type) any {
	idx := a.column(compType)
	if idx == -1 || row < 0 || row >= len(a.entities) || a.entities[row] == 0 {
		return nil
	}
	return a.storages[idx].Get(row)
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.column(compType) != -1
}

// ID returns the archetype's creation sequence number.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype.
func (a *Archetype) Len() int {
	return a.live
}

func (a *Archetype) String() string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// fragmented reports whether more than half of the rows are holes
func (a *Archetype) fragmented() bool {
	holes := len(a.entities) - a.live
	return holes > 0 && holes*2 >= len(a.entities)
}

// compact removes holes and reports the new row of every surviving entity
func (a *Archetype) compact(moved func(EntityId, int)) {
	keep := make([]bool, len(a.entities))
	for row, entity := range a.entities {
		keep[row] = entity != 0
	}
	for _, storage := range a.storages {
		storage.Compact(keep)
	}

	entities := make([]EntityId, 0, a.live)
	for _, entity := range a.entities {
		if entity != 0 {
			moved(entity, len(entities))
			entities = append(entities, entity)
		}
	}
	a.entities = entities
}

// Iter yields the live entities of this archetype in insertion order
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		for _, entity := range a.entities {
			if entity == 0 {
				continue
			}
			if !yield(entity) {
				return
			}
		}
	}
}

func findComponent(components []any, typ reflect.Type) any {
	for _, comp := range components {
		if componentType(comp) == typ {
			return comp
		}
	}
	return nil
}

func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	return compType
}

func sortTypes(types []reflect.Type) []reflect.Type {
	sort.Sort(byTypeName(types))
	return types
}
