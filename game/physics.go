package game

import (
	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/ecs"
)

// PlayerPhysicsSystem integrates the controllable entity's vertical motion:
// jump impulse or gravity, then position, then the ceiling and floor clamp.
type PlayerPhysicsSystem struct {
	Players ecs.Query[struct {
		*Position
		*Animation
		Scroll   *ScrollTag   `ecs:"without"`
		Obstacle *ObstacleTag `ecs:"without"`
	}]
	Input  ecs.Singleton[InputState]
	Tuning ecs.Singleton[config.Tuning]
}

func (s *PlayerPhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	physics := s.Tuning.MustGet().Physics
	input := s.Input.MustGet()

	for player := range s.Players.Values() {
		integrate(player.Position, input, physics)
	}
}

func integrate(pos *Position, input *InputState, p config.PhysicsSpec) {
	vy := pos.Velocity.Y

	if input.jumpArmed() {
		// A jump never pushes the rise past MaxRise.
		if vy >= p.MaxRise {
			vy = max(vy+p.JumpImpulse, p.MaxRise)
		}
		input.JumpRequested = false
		input.JumpKeyReleased = false
	} else if vy < p.TerminalVelocity {
		vy = min(vy+p.Gravity, p.TerminalVelocity)
	}

	pos.Pos.Y += vy

	// Both bounds stop the entity dead; there is no bounce.
	switch {
	case pos.Pos.Y <= p.Ceiling:
		pos.Pos.Y = p.Ceiling
		vy = 0
	case pos.Pos.Y >= p.Floor:
		pos.Pos.Y = p.Floor
		vy = 0
	}

	pos.Velocity.Y = vy
}

// BackgroundScrollSystem moves the looping tile bands. A tile that leaves the
// left edge jumps forward by the width of the whole band.
type BackgroundScrollSystem struct {
	Tiles ecs.Query[struct {
		*Position
		*ScrollTag
		Obstacle *ObstacleTag `ecs:"without"`
	}]
}

func (s *BackgroundScrollSystem) Execute(frame *ecs.UpdateFrame) {
	for tile := range s.Tiles.Values() {
		tag := tile.ScrollTag
		tile.Position.Pos.X -= tag.Velocity
		if tile.Position.Pos.X < -tag.TileWidth {
			tile.Position.Pos.X += tag.TileWidth * float32(tag.Copies)
		}
	}
}

// VolumeSyncSystem copies every Position into its CollisionVolume. It runs
// after all movement so collision never sees last tick's boxes.
type VolumeSyncSystem struct {
	Bodies ecs.Query[struct {
		*Position
		*CollisionVolume
	}]
}

func (s *VolumeSyncSystem) Execute(frame *ecs.UpdateFrame) {
	for body := range s.Bodies.Values() {
		body.CollisionVolume.Origin = body.Position.Pos
	}
}
