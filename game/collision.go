package game

import "github.com/plus3/gapbird/ecs"

// CollisionSystem ends the round when the player's volume overlaps any other
// volume. The player is the animated entity with a volume.
type CollisionSystem struct {
	Players ecs.Query[struct {
		*CollisionVolume
		*Animation
	}]
	Others ecs.Query[struct {
		ecs.EntityId
		*CollisionVolume
		Animation *Animation `ecs:"without"`
	}]
	State ecs.Singleton[GameState]

	// Hit is the entity that ended the round, zero while nothing was hit.
	Hit ecs.EntityId
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	_, player, ok := s.Players.First()
	if !ok {
		return
	}

	for other := range s.Others.Values() {
		if player.CollisionVolume.Overlaps(*other.CollisionVolume) {
			s.State.MustGet().Playing = false
			s.Hit = other.EntityId
			return
		}
	}
}
