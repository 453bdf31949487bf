package game

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrate(t *testing.T) {
	physics := config.Default().Physics

	tests := []struct {
		name   string
		y, vy  float32
		input  InputState
		wantY  float32
		wantVy float32
	}{
		{"gravity from rest", 200, 0, InputState{JumpKeyReleased: true}, 200.3, 0.3},
		{"terminal velocity holds", 200, 6, InputState{JumpKeyReleased: true}, 206, 6},
		{"gravity stops at terminal", 200, 5.9, InputState{JumpKeyReleased: true}, 206, 6},
		{"ceiling stops the fall upwards", 5, -6, InputState{JumpKeyReleased: true}, 0, 0},
		{"floor stops the fall", 459, 6, InputState{JumpKeyReleased: true}, 460, 0},
		{"fresh jump", 200, 0, InputState{JumpRequested: true, JumpKeyReleased: true}, 190, -10},
		{"jump while falling", 200, 4, InputState{JumpRequested: true, JumpKeyReleased: true}, 194, -6},
		{"jump capped at max rise", 200, -3, InputState{JumpRequested: true, JumpKeyReleased: true}, 190, -10},
		{"held key does not jump", 200, 0, InputState{JumpRequested: true}, 200.3, 0.3},
		{"no rise past max", 200, -10.5, InputState{JumpRequested: true, JumpKeyReleased: true}, 189.5, -10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := &Position{Pos: Vec2{X: 100, Y: tt.y}, Velocity: Vec2{Y: tt.vy}}
			input := tt.input

			integrate(pos, &input, physics)

			assert.InDelta(t, tt.wantY, pos.Pos.Y, 1e-4)
			assert.InDelta(t, tt.wantVy, pos.Velocity.Y, 1e-4)
			assert.Equal(t, float32(100), pos.Pos.X)
		})
	}
}

func TestIntegrateConsumesJump(t *testing.T) {
	physics := config.Default().Physics
	pos := &Position{Pos: Vec2{Y: 200}}
	input := InputState{JumpKeyReleased: true}.Pressed()

	integrate(pos, &input, physics)
	assert.Equal(t, InputState{}, input)

	// Pressing again without a release keeps the gate shut.
	input = input.Pressed()
	integrate(pos, &input, physics)
	assert.InDelta(t, -9.7, pos.Velocity.Y, 1e-4)

	input = input.Released().Pressed()
	integrate(pos, &input, physics)
	assert.InDelta(t, -10, pos.Velocity.Y, 1e-4)
}

func TestPlayerPhysicsBounds(t *testing.T) {
	storage := newTestWorld()
	player := spawnPlayer(storage, 100, 200, 0)
	input := ecs.NewSingleton[InputState](storage)

	system := &PlayerPhysicsSystem{}
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(system)

	rng := rand.New(rand.NewPCG(7, 7))
	for range 2000 {
		switch rng.IntN(3) {
		case 0:
			input.Set(input.MustGet().Pressed())
		case 1:
			input.Set(input.MustGet().Released())
		}
		scheduler.Once(1.0 / 60)

		pos := ecs.ReadComponent[Position](storage, player)
		require.NotNil(t, pos)
		require.GreaterOrEqual(t, pos.Velocity.Y, float32(-10))
		require.LessOrEqual(t, pos.Velocity.Y, float32(6))
		require.GreaterOrEqual(t, pos.Pos.Y, float32(0))
		require.LessOrEqual(t, pos.Pos.Y, float32(460))
	}
}

func TestPlayerPhysicsIgnoresScenery(t *testing.T) {
	storage := newTestWorld()
	tile := storage.Spawn(
		Position{Pos: Vec2{Y: 100}},
		Animation{FrameCount: 1, Frames: []ImageHandle{1}},
		ScrollTag{Velocity: 1, TileWidth: 64, Copies: 2},
	)

	runOnce(storage, &PlayerPhysicsSystem{})

	pos := ecs.ReadComponent[Position](storage, tile)
	assert.Equal(t, float32(100), pos.Pos.Y)
	assert.Zero(t, pos.Velocity.Y)
}

func TestBackgroundScrollWrap(t *testing.T) {
	storage := newTestWorld()
	const w, c, v = 64, 17, 4
	tile := storage.Spawn(
		Position{Pos: Vec2{X: -62}},
		Sprite{Image: 2},
		ScrollTag{Velocity: v, TileWidth: w, Copies: c},
	)
	next := storage.Spawn(
		Position{Pos: Vec2{X: 2}},
		Sprite{Image: 2},
		ScrollTag{Velocity: v, TileWidth: w, Copies: c},
	)

	runOnce(storage, &BackgroundScrollSystem{})

	assert.Equal(t, float32(-62-v+w*c), ecs.ReadComponent[Position](storage, tile).Pos.X)
	assert.Equal(t, float32(-2), ecs.ReadComponent[Position](storage, next).Pos.X)
}

func TestBackgroundScrollKeepsSpacing(t *testing.T) {
	storage := newTestWorld()
	spec := config.Default().Ground

	var tiles []ecs.EntityId
	for i := range spec.Copies {
		tiles = append(tiles, storage.Spawn(
			Position{Pos: Vec2{X: float32(i) * spec.TileWidth}},
			Sprite{Image: 2},
			ScrollTag(spec.ScrollSpec),
		))
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&BackgroundScrollSystem{})
	band := spec.TileWidth * float32(spec.Copies)

	for range 500 {
		scheduler.Once(1.0 / 60)

		for i, id := range tiles {
			x := ecs.ReadComponent[Position](storage, id).Pos.X
			require.GreaterOrEqual(t, x, -spec.TileWidth)
			require.Less(t, x, band)

			prev := ecs.ReadComponent[Position](storage, tiles[(i+len(tiles)-1)%len(tiles)]).Pos.X
			gap := x - prev
			if gap < 0 {
				gap += band
			}
			require.InDelta(t, spec.TileWidth, gap, 1e-3)
		}
	}
}

func TestBackgroundScrollSkipsObstacles(t *testing.T) {
	storage := newTestWorld()
	spec := config.Default().Obstacles
	top, _ := obstaclePair(spec, 500, spec.Layouts[0], testAssets().Obstacles)
	id := storage.Spawn(top...)

	runOnce(storage, &BackgroundScrollSystem{})

	assert.Equal(t, float32(500), ecs.ReadComponent[Position](storage, id).Pos.X)
}

func TestVolumeSync(t *testing.T) {
	storage := newTestWorld()
	id := storage.Spawn(
		Position{Pos: Vec2{X: 10, Y: 20}},
		CollisionVolume{Origin: Vec2{X: 1, Y: 1}, Width: 5, Height: 6},
	)

	runOnce(storage, &VolumeSyncSystem{})

	volume := ecs.ReadComponent[CollisionVolume](storage, id)
	assert.Equal(t, CollisionVolume{Origin: Vec2{X: 10, Y: 20}, Width: 5, Height: 6}, *volume)
}
