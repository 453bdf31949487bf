package ecs_test

import (
	"reflect"

	"github.com/plus3/gapbird/ecs"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Frozen struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

type Link struct {
	Next *Position
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Frozen](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[int32](registry)
	ecs.RegisterComponent[string](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[Link](registry)
	return registry
}

func reflectType[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
