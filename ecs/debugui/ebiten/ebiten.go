// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gapbird/ecs"
	"github.com/plus3/gapbird/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay keeps the debug UI in a storage of its own, so it survives the game
// replacing its world.
type Overlay struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[ImguiBackend]
	input     *ecs.Singleton[debugui.ImguiInputState]
}

// NewOverlay creates the ImGui window and spawns the debug windows. It also
// sets the Ebiten window title and size.
func NewOverlay(title string, width, height int, source debugui.Source, target debugui.Target) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	registry := ecs.NewComponentRegistry()
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	debugui.Spawn(storage, source, target)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&debugui.ImguiSystem{})

	return &Overlay{
		storage:   storage,
		scheduler: scheduler,
		backend:   ecs.NewSingleton(storage, ImguiBackend{EbitenBackend: backend}),
		input:     ecs.NewSingleton[debugui.ImguiInputState](storage),
	}
}

// Update builds one ImGui frame. Call it from the game's Update.
func (o *Overlay) Update(dt float64) {
	backend := o.backend.MustGet()
	backend.BeginFrame()
	o.scheduler.Once(dt)
	backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.MustGet().Draw(screen)
}

func (o *Overlay) Layout(outsideWidth, outsideHeight int) {
	o.backend.MustGet().Layout(outsideWidth, outsideHeight)
}

// WantsMouse reports whether the last frame's pointer belonged to an ImGui window.
func (o *Overlay) WantsMouse() bool {
	return o.input.MustGet().WantCaptureMouse
}

// WantsKeyboard reports whether an ImGui widget holds keyboard focus.
func (o *Overlay) WantsKeyboard() bool {
	return o.input.MustGet().WantCaptureKeyboard
}

// Stats exposes the overlay's own scheduler timings.
func (o *Overlay) Stats() *ecs.SchedulerStats {
	return o.scheduler.GetStats()
}
