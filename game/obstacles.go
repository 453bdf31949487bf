package game

import (
	"math/rand/v2"

	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/ecs"
)

// ObstacleScrollSystem moves obstacle halves left and recycles a pair once it
// has scrolled past the left edge: both halves are deleted and the top half
// queues a fresh pair at the spawn column. All of it lands at the next flush.
type ObstacleScrollSystem struct {
	Obstacles ecs.Query[struct {
		ecs.EntityId
		*Position
		*ScrollTag
		*ObstacleTag
	}]
	Tuning ecs.Singleton[config.Tuning]

	Rand *rand.Rand
}

func (s *ObstacleScrollSystem) Execute(frame *ecs.UpdateFrame) {
	spec := s.Tuning.MustGet().Obstacles

	for obstacle := range s.Obstacles.Values() {
		obstacle.Position.Pos.X -= obstacle.ScrollTag.Velocity
		if obstacle.Position.Pos.X >= -obstacle.ScrollTag.TileWidth {
			continue
		}

		frame.Commands.Delete(obstacle.EntityId)
		if !obstacle.ObstacleTag.IsTop {
			continue
		}

		top, bottom := obstaclePair(spec, spec.SpawnX, drawLayout(s.Rand, spec), obstacle.ObstacleTag.Images)
		frame.Commands.Spawn(top...)
		frame.Commands.Spawn(bottom...)
	}
}

// drawLayout picks a gap layout. Draws past the explicit layouts fall back to
// the default layout, which keeps the table's distribution as configured.
func drawLayout(rng *rand.Rand, spec config.ObstacleSpec) config.GapLayout {
	return spec.Layout(rng.IntN(spec.GapDraws))
}

// obstaclePair builds the components of both halves of a pair at column x.
// The top half hangs from y=0; the bottom half stands on FloorY.
func obstaclePair(spec config.ObstacleSpec, x float32, layout config.GapLayout, images [4]ImageHandle) (top, bottom []any) {
	mustObstacleImages(images)

	scroll := ScrollTag{Velocity: spec.Velocity, TileWidth: spec.Width, Copies: 1}

	topPos := Vec2{X: x, Y: 0}
	top = []any{
		Position{Pos: topPos},
		Sprite{Image: images[0]},
		scroll,
		ObstacleTag{Images: images, IsTop: true},
		CollisionVolume{Origin: topPos, Width: spec.Width, Height: layout.TopHeight},
	}

	bottomPos := Vec2{X: x, Y: layout.BottomY}
	bottom = []any{
		Position{Pos: bottomPos},
		Sprite{Image: images[layout.BottomImage]},
		scroll,
		ObstacleTag{Images: images, IsTop: false},
		CollisionVolume{Origin: bottomPos, Width: spec.Width, Height: spec.FloorY - layout.BottomY},
	}
	return top, bottom
}
