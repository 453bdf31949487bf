package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field of a component struct.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
}

// ReflectionCache memoizes the exported fields of struct types. The inspector
// walks the same few component types every frame.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

// GetFields returns the exported fields of t, or nil when t is not a struct.
// Pointer fields report their element type.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			info := FieldInfo{Name: field.Name, Type: field.Type, Index: i}
			if field.Type.Kind() == reflect.Pointer {
				info.Type = field.Type.Elem()
				info.IsPointer = true
			}
			fields = append(fields, info)
		}
	}

	actual, _ := rc.fields.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

var globalReflectionCache = NewReflectionCache()
