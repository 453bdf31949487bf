package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/game"
)

// Atlas owns the images the host draws. The simulation only ever sees the
// handles Add returns.
type Atlas struct {
	images []*ebiten.Image
}

// Add stores img and returns its handle. Handles start at 1.
func (a *Atlas) Add(img *ebiten.Image) game.ImageHandle {
	a.images = append(a.images, img)
	return game.ImageHandle(len(a.images))
}

// Image returns nil for the zero handle and for handles it never issued.
func (a *Atlas) Image(h game.ImageHandle) *ebiten.Image {
	if h == 0 || int(h) > len(a.images) {
		return nil
	}
	return a.images[h-1]
}

// Reset deallocates every image. Handles issued before Reset are invalid.
func (a *Atlas) Reset() {
	for _, img := range a.images {
		img.Deallocate()
	}
	a.images = a.images[:0]
}

var (
	skyColor    = color.RGBA{0x4e, 0xc0, 0xca, 0xff}
	cloudColor  = color.RGBA{0xe9, 0xfc, 0xd9, 0xff}
	groundColor = color.RGBA{0xde, 0xd8, 0x95, 0xff}
	grassColor  = color.RGBA{0x73, 0xbf, 0x2e, 0xff}
	birdColor   = color.RGBA{0xf8, 0xb7, 0x33, 0xff}
	wingColor   = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	pipeColors  = [4]color.RGBA{
		{0x55, 0x8b, 0x2f, 0xff},
		{0x5e, 0x9c, 0x31, 0xff},
		{0x4a, 0x7f, 0x2a, 0xff},
		{0x3f, 0x70, 0x25, 0xff},
	}
	lipColor = color.RGBA{0x2d, 0x52, 0x1b, 0xff}
)

const (
	playerFrames = 4
	lipHeight    = 24
)

// Placeholders draws flat-colour art sized for tuning. It replaces whatever
// the atlas held before.
func (a *Atlas) Placeholders(t config.Tuning) game.Assets {
	a.Reset()

	screenW, screenH := t.Screen.Width, t.Screen.Height

	background := ebiten.NewImage(int(t.Background.TileWidth), screenH)
	background.Fill(skyColor)
	fillRect(background, image.Rect(screenW/8, screenH/5, screenW/8+160, screenH/5+40), cloudColor)

	groundH := max(screenH-int(t.Ground.Y), 1)
	ground := ebiten.NewImage(int(t.Ground.TileWidth), groundH)
	ground.Fill(groundColor)
	fillRect(ground, image.Rect(0, 0, int(t.Ground.TileWidth), min(12, groundH)), grassColor)

	assets := game.Assets{
		Background: a.Add(background),
		Ground:     a.Add(ground),
	}

	pw, ph := int(t.Player.Width), int(t.Player.Height)
	for i := range playerFrames {
		frame := ebiten.NewImage(pw, ph)
		frame.Fill(birdColor)
		// The wing sweeps down then back up across the cycle.
		wingY := ph/4 + (ph/4)*min(i, playerFrames-i)/(playerFrames/2)
		fillRect(frame, image.Rect(pw/6, wingY, pw/2, wingY+ph/6), wingColor)
		assets.PlayerFrames = append(assets.PlayerFrames, a.Add(frame))
	}

	// Halves are cropped to their collision height, so every image is as tall
	// as the tallest possible half.
	ow, oh := int(t.Obstacles.Width), int(t.Obstacles.Span())
	for i := range assets.Obstacles {
		pipe := ebiten.NewImage(ow, oh)
		pipe.Fill(pipeColors[i])
		lip := image.Rect(0, 0, ow, lipHeight)
		if i == 0 {
			lip = image.Rect(0, oh-lipHeight, ow, oh)
		}
		fillRect(pipe, lip, lipColor)
		assets.Obstacles[i] = a.Add(pipe)
	}

	return assets
}

func fillRect(img *ebiten.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	img.SubImage(r).(*ebiten.Image).Fill(c)
}

// cropRect is the part of bounds a drawable shows. Top halves keep the bottom
// of their image, where the lip is.
func cropRect(bounds image.Rectangle, d game.Drawable) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	if d.Width > 0 {
		w = min(int(d.Width), w)
	}
	if d.Height > 0 {
		h = min(int(d.Height), h)
	}
	if d.AnchorBottom {
		return image.Rect(bounds.Min.X, bounds.Max.Y-h, bounds.Min.X+w, bounds.Max.Y)
	}
	return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+w, bounds.Min.Y+h)
}
