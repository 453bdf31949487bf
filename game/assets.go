package game

import "fmt"

// Assets are the image handles a round is built from. The host loads the
// images; the simulation only passes the handles along.
type Assets struct {
	Background   ImageHandle
	Ground       ImageHandle
	PlayerFrames []ImageHandle
	// Obstacles holds the top-half image followed by three bottom-half variants.
	Obstacles [4]ImageHandle
}

// mustValidate panics on a missing handle; a round cannot be built without art.
func (a Assets) mustValidate() {
	if a.Background == 0 {
		panic("game: missing background image")
	}
	if a.Ground == 0 {
		panic("game: missing ground image")
	}
	if len(a.PlayerFrames) == 0 {
		panic("game: player animation has no frames")
	}
	for i, h := range a.PlayerFrames {
		if h == 0 {
			panic(fmt.Sprintf("game: missing player frame %d", i))
		}
	}
	mustObstacleImages(a.Obstacles)
}

func mustObstacleImages(images [4]ImageHandle) {
	for i, h := range images {
		if h == 0 {
			panic(fmt.Sprintf("game: obstacle image set has empty slot %d", i))
		}
	}
}
