package game

import (
	"testing"

	"github.com/plus3/gapbird/ecs"
	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	player := CollisionVolume{Origin: Vec2{X: 100, Y: 200}, Width: 58, Height: 72}

	tests := []struct {
		name  string
		other CollisionVolume
		want  bool
	}{
		{"crossing", CollisionVolume{Origin: Vec2{X: 130, Y: 180}, Width: 64, Height: 240}, true},
		{"contained", CollisionVolume{Origin: Vec2{X: 110, Y: 210}, Width: 10, Height: 10}, true},
		{"touching right edge", CollisionVolume{Origin: Vec2{X: 158, Y: 200}, Width: 64, Height: 72}, false},
		{"touching left edge", CollisionVolume{Origin: Vec2{X: 36, Y: 200}, Width: 64, Height: 72}, false},
		{"touching top edge", CollisionVolume{Origin: Vec2{X: 100, Y: 100}, Width: 64, Height: 100}, false},
		{"touching bottom edge", CollisionVolume{Origin: Vec2{X: 100, Y: 272}, Width: 64, Height: 100}, false},
		{"apart", CollisionVolume{Origin: Vec2{X: 500, Y: 0}, Width: 64, Height: 100}, false},
		{"one pixel in", CollisionVolume{Origin: Vec2{X: 157, Y: 271}, Width: 64, Height: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, player.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(player), "overlap must be symmetric")
		})
	}
}

func TestCollisionEndsRound(t *testing.T) {
	storage := newTestWorld()
	spawnPlayer(storage, 100, 200, 0)
	obstacle := storage.Spawn(
		Position{Pos: Vec2{X: 130, Y: 180}},
		CollisionVolume{Origin: Vec2{X: 130, Y: 180}, Width: 64, Height: 240},
	)

	system := &CollisionSystem{}
	runOnce(storage, system)

	state := ecs.NewSingleton[GameState](storage).MustGet()
	assert.False(t, state.Playing)
	assert.Equal(t, obstacle, system.Hit)
}

func TestCollisionEdgeTouchKeepsPlaying(t *testing.T) {
	storage := newTestWorld()
	spawnPlayer(storage, 100, 200, 0)
	storage.Spawn(
		Position{Pos: Vec2{X: 158, Y: 180}},
		CollisionVolume{Origin: Vec2{X: 158, Y: 180}, Width: 64, Height: 240},
	)

	system := &CollisionSystem{}
	runOnce(storage, system)

	assert.True(t, ecs.NewSingleton[GameState](storage).MustGet().Playing)
	assert.Zero(t, system.Hit)
}

func TestCollisionWithoutPlayer(t *testing.T) {
	storage := newTestWorld()
	storage.Spawn(CollisionVolume{Width: 10, Height: 10})
	storage.Spawn(CollisionVolume{Width: 10, Height: 10})

	runOnce(storage, &CollisionSystem{})

	assert.True(t, ecs.NewSingleton[GameState](storage).MustGet().Playing)
}

func TestCollisionIgnoresAnimatedVolumes(t *testing.T) {
	storage := newTestWorld()
	spawnPlayer(storage, 100, 200, 0)
	spawnPlayer(storage, 100, 200, 0)

	runOnce(storage, &CollisionSystem{})

	assert.True(t, ecs.NewSingleton[GameState](storage).MustGet().Playing)
}
