package main

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/ecs"
	"github.com/plus3/gapbird/ecs/debugui"
	debugui_ebiten "github.com/plus3/gapbird/ecs/debugui/ebiten"
	"github.com/plus3/gapbird/game"
	"golang.org/x/image/font/basicfont"
)

const windowTitle = "gapbird"

// tickDuration is the wall time of one Update at Ebiten's fixed tick rate.
var tickDuration = time.Second / time.Duration(ebiten.DefaultTPS)

// Game is the ebiten.Game that hosts rounds. It reads input, ticks the
// current round, draws it and starts a new round after game over.
type Game struct {
	tuning config.Tuning
	seed   uint64
	logger *log.Logger

	art     func(config.Tuning) game.Assets
	atlas   *Atlas
	round   *game.Round
	face    text.Face
	watcher *config.Watcher
	overlay *debugui_ebiten.Overlay
	debug   bool

	rounds int
	best   int64
}

type Option func(*Game)

// WithSeed pins the layout seed of every round; zero leaves the tuning alone.
func WithSeed(seed uint64) Option {
	return func(g *Game) {
		g.seed = seed
	}
}

func WithDebug(debug bool) Option {
	return func(g *Game) {
		g.debug = debug
	}
}

// WithWatcher takes tuning updates from w. They apply from the next round.
func WithWatcher(w *config.Watcher) Option {
	return func(g *Game) {
		g.watcher = w
	}
}

// withArt replaces the placeholder atlas; tests run without a graphics context.
func withArt(art func(config.Tuning) game.Assets) Option {
	return func(g *Game) {
		g.art = art
	}
}

func NewGame(tuning config.Tuning, opts ...Option) *Game {
	g := &Game{
		tuning: tuning,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.art == nil {
		g.atlas = &Atlas{}
		g.art = g.atlas.Placeholders
		g.face = text.NewGoXFace(basicfont.Face7x13)
		g.setupWindow()
	}

	g.newRound()
	return g
}

func (g *Game) setupWindow() {
	w, h := g.tuning.Screen.Width, g.tuning.Screen.Height
	if g.debug {
		g.overlay = debugui_ebiten.NewOverlay(windowTitle, w, h, g.snapshot, g.inspectPlayer)
		return
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(windowTitle)
}

func (g *Game) newRound() {
	t := g.tuning
	if g.seed != 0 {
		t.Seed = g.seed
	}
	g.round = game.NewRound(g.art(t), t, game.WithLogger(g.logger))
	g.rounds++
}

// controls is one frame of host input.
type controls struct {
	jumpPressed  bool
	jumpReleased bool
	restart      bool
	quit         bool
}

func readControls(mouse bool) controls {
	c := controls{
		jumpPressed:  inpututil.IsKeyJustPressed(ebiten.KeySpace),
		jumpReleased: inpututil.IsKeyJustReleased(ebiten.KeySpace),
		quit:         inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
	if mouse {
		c.jumpPressed = c.jumpPressed || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
		c.jumpReleased = c.jumpReleased || inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	}
	c.restart = c.jumpPressed || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	return c
}

func (g *Game) Update() error {
	mouse := true
	if g.overlay != nil {
		g.overlay.Update(tickDuration.Seconds())
		mouse = !g.overlay.WantsMouse()
	}
	g.pollTuning()
	return g.step(readControls(mouse))
}

// step applies input, then ticks. Input lands between ticks so the systems
// see a settled InputState.
func (g *Game) step(c controls) error {
	if c.quit {
		g.round.RequestQuit()
	}
	if g.round.QuitRequested() {
		return ebiten.Termination
	}

	if state := g.round.State(); !state.Playing {
		if c.restart {
			g.best = max(g.best, state.Score)
			g.logger.Printf("round %d scored %d (best %d)", g.rounds, state.Score, g.best)
			g.newRound()
			return nil
		}
	}

	if c.jumpPressed {
		g.round.PressJump()
	}
	if c.jumpReleased {
		g.round.ReleaseJump()
	}
	g.round.Tick(tickDuration)
	return nil
}

func (g *Game) pollTuning() {
	if g.watcher == nil {
		return
	}
	select {
	case t, ok := <-g.watcher.Updates:
		if ok {
			g.tuning = t
			g.logger.Printf("tuning reloaded; applies to the next round")
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.logger.Printf("tuning reload: %v", err)
		}
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	for d := range g.round.Drawables() {
		img := g.atlas.Image(d.Image)
		if img == nil {
			continue
		}
		img = img.SubImage(cropRect(img.Bounds(), d)).(*ebiten.Image)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(d.X), float64(d.Y))
		screen.DrawImage(img, op)
	}

	g.drawHUD(screen)

	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	state := g.round.State()

	op := &text.DrawOptions{}
	op.GeoM.Translate(12, 12)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, fmt.Sprintf("SCORE %d", state.Score), g.face, op)

	if state.Playing {
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	msg := "GAME OVER - press Enter"
	w, h := text.Measure(msg, g.face, 0)
	op = &text.DrawOptions{}
	op.GeoM.Translate((float64(screenW)-w)/2, (float64(screenH)-h)/2)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, msg, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	screen := g.round.Tuning().Screen
	w, h := screen.Width, screen.Height
	if g.overlay != nil {
		g.overlay.Layout(w, h)
	}
	return w, h
}

// snapshot feeds the debug overlay.
func (g *Game) snapshot() debugui.Snapshot {
	stats := g.round.Stats()
	state := g.round.State()
	return debugui.Snapshot{
		Lines: []string{
			fmt.Sprintf("Round %d: %s, score %d (best %d)", g.rounds, state.Phase(), state.Score, g.best),
			fmt.Sprintf("Ticks: %d, animation steps: %d", stats.Ticks, stats.AnimationSteps),
			fmt.Sprintf("TPS: %.1f", ebiten.ActualTPS()),
		},
		Storage: stats.Storage,
		Systems: stats.Systems,
	}
}

func (g *Game) inspectPlayer() (*ecs.Storage, ecs.EntityId) {
	return g.round.Storage(), g.round.Player()
}
