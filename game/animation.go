package game

import "github.com/plus3/gapbird/ecs"

// AnimationSystem advances every animation by one frame. The round runs it
// from a fixed-rate accumulator, so it may run several times in one tick or
// not at all.
type AnimationSystem struct {
	Animations ecs.Query[struct{ *Animation }]
}

func (s *AnimationSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Animations.Values() {
		anim := item.Animation
		if anim.FrameCount == 0 {
			panic("game: animation with zero frames")
		}
		anim.CurrentFrame = (anim.CurrentFrame + 1) % anim.FrameCount
	}
}
