package game

import (
	"io"
	"log"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/ecs"
)

const frameTime = 16 * time.Millisecond

func testAssets() Assets {
	return Assets{
		Background:   1,
		Ground:       2,
		PlayerFrames: []ImageHandle{10, 11, 12, 13},
		Obstacles:    [4]ImageHandle{20, 21, 22, 23},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestRound(t *testing.T, tuning config.Tuning) *Round {
	t.Helper()
	return NewRound(testAssets(), tuning,
		WithLogger(quietLogger()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
}

// newTestWorld returns a storage holding the singletons the systems read,
// without any entities.
func newTestWorld() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	ecs.NewSingleton(storage, config.Default())
	ecs.NewSingleton(storage, GameState{Playing: true})
	ecs.NewSingleton(storage, InputState{JumpKeyReleased: true})
	return storage
}

// runOnce runs the systems once in order and commits their commands.
func runOnce(storage *ecs.Storage, systems ...ecs.System) {
	scheduler := ecs.NewScheduler(storage)
	for _, system := range systems {
		scheduler.Register(system)
	}
	scheduler.Once(1.0 / 60)
}

func spawnPlayer(storage *ecs.Storage, x, y, vy float32) ecs.EntityId {
	return storage.Spawn(
		Position{Pos: Vec2{X: x, Y: y}, Velocity: Vec2{Y: vy}},
		Animation{FrameCount: 2, Frames: []ImageHandle{10, 11}},
		CollisionVolume{Origin: Vec2{X: x, Y: y}, Width: 58, Height: 72},
	)
}

type obstacleView struct {
	ecs.EntityId
	*Position
	*ObstacleTag
	*CollisionVolume
}

func obstacles(storage *ecs.Storage) []obstacleView {
	var out []obstacleView
	for item := range ecs.NewView[obstacleView](storage).Values() {
		out = append(out, item)
	}
	return out
}
