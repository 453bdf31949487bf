package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/gapbird/ecs"
)

// Target names the entity the inspector shows. The storage may change between
// calls, for example when a new round replaces the old one.
type Target func() (*ecs.Storage, ecs.EntityId)

// Inspector lists every component of one entity and lets numeric and boolean
// fields be edited in place.
type Inspector struct{}

func (in *Inspector) Render(storage *ecs.Storage, entity ecs.EntityId) {
	imgui.SetNextWindowPosV(imgui.NewVec2(360, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if storage == nil || !storage.Alive(entity) {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity))
	imgui.Separator()

	for _, compType := range componentTypes(storage, entity) {
		component := storage.GetComponent(entity, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			in.renderStruct(reflect.ValueOf(component).Elem(), compType.String())
			imgui.TreePop()
		}
	}

	imgui.End()
}

// componentTypes returns the types of the archetype currently holding entity.
func componentTypes(storage *ecs.Storage, entity ecs.EntityId) []reflect.Type {
	for _, archetype := range storage.Archetypes() {
		for id := range archetype.Iter() {
			if id == entity {
				return archetype.Types()
			}
		}
	}
	return nil
}

func (in *Inspector) renderStruct(val reflect.Value, path string) {
	if val.Kind() != reflect.Struct {
		in.renderField("value", val, path)
		return
	}
	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		in.renderField(field.Name, fieldVal, path+"."+field.Name)
	}
}

// renderField edits val directly; val points into component storage.
func (in *Inspector) renderField(name string, val reflect.Value, id string) {
	label := fmt.Sprintf("%s##%s", name, id)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(label, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(label) {
			in.renderStruct(val, id)
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
