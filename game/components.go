// Package game is the simulation core of gapbird: the components, the systems
// that move and collide them, and the Round that drives one play session.
package game

import "github.com/plus3/gapbird/ecs"

// ImageHandle is an opaque reference to an image owned by the host.
// The zero handle means "no image".
type ImageHandle uint32

type Vec2 struct {
	X, Y float32
}

// Position is in world space: origin top-left, y grows downwards.
type Position struct {
	Pos      Vec2
	Velocity Vec2
}

type Sprite struct {
	Image ImageHandle
}

// Animation cycles through Frames. CurrentFrame is always below FrameCount.
type Animation struct {
	CurrentFrame uint32
	FrameCount   uint32
	Frames       []ImageHandle
}

// Frame returns the image for the current frame.
func (a *Animation) Frame() ImageHandle {
	return a.Frames[a.CurrentFrame]
}

// ScrollTag marks entities that move left at Velocity pixels per tick and
// either wrap around a band of Copies tiles or retire once off screen.
type ScrollTag struct {
	Velocity  float32
	TileWidth float32
	Copies    uint32
}

// ObstacleTag marks one half of an obstacle pair. Images is the full set the
// pair was built from; a replacement pair reuses it.
type ObstacleTag struct {
	Images [4]ImageHandle
	IsTop  bool
}

// CollisionVolume is an axis-aligned box. Origin follows the owning
// entity's Position every tick.
type CollisionVolume struct {
	Origin        Vec2
	Width, Height float32
}

// Overlaps reports strict overlap; boxes that only share an edge do not overlap.
func (v CollisionVolume) Overlaps(o CollisionVolume) bool {
	return v.Origin.X < o.Origin.X+o.Width && v.Origin.X+v.Width > o.Origin.X &&
		v.Origin.Y < o.Origin.Y+o.Height && v.Origin.Y+v.Height > o.Origin.Y
}

// RegisterComponents registers every component type the simulation stores.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Animation](registry)
	ecs.RegisterComponent[ScrollTag](registry)
	ecs.RegisterComponent[ObstacleTag](registry)
	ecs.RegisterComponent[CollisionVolume](registry)
}
