package game

import (
	"testing"

	"github.com/plus3/gapbird/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimationCycle(t *testing.T) {
	storage := newTestWorld()
	frames := []ImageHandle{10, 11, 12}
	id := storage.Spawn(Animation{FrameCount: uint32(len(frames)), Frames: frames})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&AnimationSystem{})

	anim := ecs.ReadComponent[Animation](storage, id)
	for i := range 3 * len(frames) {
		require.Less(t, anim.CurrentFrame, anim.FrameCount)
		assert.Equal(t, uint32(i%len(frames)), anim.CurrentFrame)
		assert.Equal(t, frames[i%len(frames)], anim.Frame())
		scheduler.Once(1.0 / 15)
	}
	assert.Zero(t, anim.CurrentFrame)
}

func TestAnimationSingleFrame(t *testing.T) {
	storage := newTestWorld()
	id := storage.Spawn(Animation{FrameCount: 1, Frames: []ImageHandle{10}})

	runOnce(storage, &AnimationSystem{})

	assert.Zero(t, ecs.ReadComponent[Animation](storage, id).CurrentFrame)
}

func TestAnimationZeroFramesPanics(t *testing.T) {
	storage := newTestWorld()
	storage.Spawn(Animation{})

	assert.Panics(t, func() {
		runOnce(storage, &AnimationSystem{})
	})
}
