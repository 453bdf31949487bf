package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

type fieldKind uint8

const (
	fieldRequired fieldKind = iota
	fieldOptional
	fieldWithout
	fieldEntityId
)

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a query for entities with a specific combination of components.
// The type T should be a struct with pointer fields for each component type:
//
//   - embedded pointer fields are required
//   - named pointer fields tagged `ecs:"optional"` are nil when the component is absent
//   - named pointer fields tagged `ecs:"without"` exclude every entity holding that
//     component; the field itself is always nil
//   - a field of type EntityId receives the id of the matched entity
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	kinds       []fieldKind
	fieldOffset []uintptr
}

// NewView creates a new view for the given struct type. It panics when T is
// malformed or names a component type that was never registered.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			v.add(entityIdType, fieldEntityId, field.Offset)
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		kind := fieldRequired
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				kind = fieldOptional
			case "without":
				kind = fieldWithout
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" and \"without\" are supported)")
			}
		}

		componentType := field.Type.Elem()
		if !storage.registry.Registered(componentType) {
			panic("component type " + componentType.String() + " not registered")
		}
		v.add(componentType, kind, field.Offset)
	}

	return v
}

func (v *View[T]) add(typ reflect.Type, kind fieldKind, offset uintptr) {
	v.types = append(v.types, typ)
	v.kinds = append(v.kinds, kind)
	v.fieldOffset = append(v.fieldOffset, offset)
}

// matchesArchetype reports whether an archetype has every required component
// and none of the excluded ones
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, typ := range v.types {
		switch v.kinds[i] {
		case fieldRequired:
			if !archetype.HasComponent(typ) {
				return false
			}
		case fieldWithout:
			if archetype.HasComponent(typ) {
				return false
			}
		}
	}
	return true
}

// columns maps each view field to the archetype column holding it, or -1
func (v *View[T]) columns(archetype *Archetype) []int {
	columns := make([]int, len(v.types))
	for i, typ := range v.types {
		columns[i] = -1
		if v.kinds[i] == fieldRequired || v.kinds[i] == fieldOptional {
			columns[i] = archetype.column(typ)
		}
	}
	return columns
}

// populate writes the row's component pointers into the struct at resultPtr
func (v *View[T]) populate(resultPtr unsafe.Pointer, archetype *Archetype, row int, columns []int) {
	for i, col := range columns {
		fieldPtr := unsafe.Add(resultPtr, v.fieldOffset[i])

		if v.kinds[i] == fieldEntityId {
			*(*EntityId)(fieldPtr) = archetype.entities[row]
			continue
		}

		if col == -1 {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		component := archetype.storages[col].Get(row)
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is gone or does not match the view.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	loc, ok := v.storage.locations.Get(id)
	if !ok || !v.matchesArchetype(loc.archetype) {
		return false
	}
	v.populate(unsafe.Pointer(ptr), loc.archetype, loc.row, v.columns(loc.archetype))
	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't match the view
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) iterArchetype(archetype *Archetype, yield func(EntityId, T) bool) bool {
	columns := v.columns(archetype)

	var result T
	resultPtr := unsafe.Pointer(&result)

	for row, entity := range archetype.entities {
		if entity == 0 {
			continue
		}
		v.populate(resultPtr, archetype, row, columns)
		if !yield(entity, result) {
			return false
		}
	}
	return true
}

// Iter returns an iterator over all entities matching this view, in insertion
// order within each archetype and archetypes in creation order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.order {
			if !v.matchesArchetype(archetype) {
				continue
			}
			if !v.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Count returns the number of entities matching the view.
func (v *View[T]) Count() int {
	n := 0
	for _, archetype := range v.storage.order {
		if v.matchesArchetype(archetype) {
			n += archetype.live
		}
	}
	return n
}

// Spawn creates a new entity from the non-nil component fields of data.
// Excluded fields and the entity id field are ignored.
func (v *View[T]) Spawn(data T) EntityId {
	return v.storage.Spawn(v.components(&data)...)
}

func (v *View[T]) components(data *T) []any {
	structPtr := unsafe.Pointer(data)

	components := make([]any, 0, len(v.types))
	for i, typ := range v.types {
		if v.kinds[i] == fieldWithout || v.kinds[i] == fieldEntityId {
			continue
		}

		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			if v.kinds[i] == fieldRequired {
				panic("required component " + typ.String() + " is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(typ, componentPtr).Interface())
	}
	return components
}
