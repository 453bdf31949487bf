// Package config holds the tunable constants of a round and loads them from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Tuning struct {
	// Seed feeds the obstacle layout generator. Zero picks a random seed per round.
	Seed       uint64       `yaml:"seed"`
	Screen     ScreenSpec   `yaml:"screen"`
	Player     PlayerSpec   `yaml:"player"`
	Physics    PhysicsSpec  `yaml:"physics"`
	Background ScrollSpec   `yaml:"background"`
	Ground     GroundSpec   `yaml:"ground"`
	Obstacles  ObstacleSpec `yaml:"obstacles"`
	Animation  AnimSpec     `yaml:"animation"`
}

type ScreenSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type PlayerSpec struct {
	X      float32 `yaml:"x"`
	StartY float32 `yaml:"start_y"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

type PhysicsSpec struct {
	Gravity          float32 `yaml:"gravity"`
	TerminalVelocity float32 `yaml:"terminal_velocity"`
	JumpImpulse      float32 `yaml:"jump_impulse"`
	// MaxRise is the most negative vertical velocity a jump may produce.
	MaxRise float32 `yaml:"max_rise"`
	Ceiling float32 `yaml:"ceiling"`
	Floor   float32 `yaml:"floor"`
}

type ScrollSpec struct {
	Velocity  float32 `yaml:"velocity"`
	TileWidth float32 `yaml:"tile_width"`
	Copies    uint32  `yaml:"copies"`
}

type GroundSpec struct {
	ScrollSpec `yaml:",inline"`
	Y          float32 `yaml:"y"`
}

// GapLayout fixes the geometry of one obstacle pair.
type GapLayout struct {
	TopHeight   float32 `yaml:"top_height"`
	BottomY     float32 `yaml:"bottom_y"`
	BottomImage int     `yaml:"bottom_image"`
}

type ObstacleSpec struct {
	SpawnX   float32   `yaml:"spawn_x"`
	Width    float32   `yaml:"width"`
	Velocity float32   `yaml:"velocity"`
	FloorY   float32   `yaml:"floor_y"`
	Gap      float32   `yaml:"gap"`
	InitialX []float32 `yaml:"initial_x"`
	// GapDraws is the exclusive upper bound of the layout draw. Draws past the
	// explicit layouts select DefaultLayout.
	GapDraws      int         `yaml:"gap_draws"`
	Layouts       []GapLayout `yaml:"layouts"`
	DefaultLayout GapLayout   `yaml:"default_layout"`
}

// Span is the combined height of the two halves of any pair.
func (o ObstacleSpec) Span() float32 {
	return o.FloorY - o.Gap
}

// Layout returns the layout selected by draw.
func (o ObstacleSpec) Layout(draw int) GapLayout {
	if draw >= 0 && draw < len(o.Layouts) {
		return o.Layouts[draw]
	}
	return o.DefaultLayout
}

type AnimSpec struct {
	// Rate is the number of animation steps per second of wall time.
	Rate float64 `yaml:"rate"`
	// MaxCatchUp caps animation steps run in one frame; zero means unbounded.
	MaxCatchUp    int  `yaml:"max_catch_up"`
	AfterGameOver bool `yaml:"after_game_over"`
}

// Default returns the embedded tuning.
func Default() Tuning {
	t, err := Parse(nil)
	if err != nil {
		panic("config: embedded defaults are invalid: " + err.Error())
	}
	return t
}

// Parse decodes data on top of the embedded defaults and validates the result.
func Parse(data []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(defaultsYAML, &t); err != nil {
		return Tuning{}, fmt.Errorf("config: unmarshal defaults: %w", err)
	}
	if len(data) > 0 {
		// Sequences replace rather than merge, so a file that lists layouts owns them.
		if err := yaml.Unmarshal(data, &t); err != nil {
			return Tuning{}, fmt.Errorf("config: unmarshal: %w", err)
		}
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Load reads path and lays it over the defaults. An empty path yields the defaults.
func Load(path string) (Tuning, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("%w (%s)", err, path)
	}
	return t, nil
}

var ErrInvalid = errors.New("config: invalid tuning")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate reports the first field that would break the simulation.
func (t Tuning) Validate() error {
	switch {
	case t.Screen.Width <= 0 || t.Screen.Height <= 0:
		return invalid("screen size %dx%d", t.Screen.Width, t.Screen.Height)
	case t.Player.Width <= 0 || t.Player.Height <= 0:
		return invalid("player size %vx%v", t.Player.Width, t.Player.Height)
	case t.Physics.Floor <= t.Physics.Ceiling:
		return invalid("floor %v must be below ceiling %v", t.Physics.Floor, t.Physics.Ceiling)
	case t.Physics.TerminalVelocity <= 0:
		return invalid("terminal velocity %v", t.Physics.TerminalVelocity)
	case t.Physics.MaxRise >= 0 || t.Physics.JumpImpulse >= 0:
		return invalid("jump impulse %v and max rise %v must be negative", t.Physics.JumpImpulse, t.Physics.MaxRise)
	case t.Animation.Rate <= 0:
		return invalid("animation rate %v", t.Animation.Rate)
	case t.Animation.MaxCatchUp < 0:
		return invalid("animation max catch-up %d", t.Animation.MaxCatchUp)
	}

	if err := t.Background.check("background"); err != nil {
		return err
	}
	if err := t.Ground.check("ground"); err != nil {
		return err
	}

	o := t.Obstacles
	switch {
	case o.Width <= 0:
		return invalid("obstacle width %v", o.Width)
	case o.Gap <= 0 || o.Gap >= o.FloorY:
		return invalid("obstacle gap %v with floor %v", o.Gap, o.FloorY)
	case o.GapDraws < 1:
		return invalid("gap draws %d", o.GapDraws)
	case len(o.Layouts) == 0:
		return invalid("no obstacle layouts")
	}

	for i, l := range append(append([]GapLayout(nil), o.Layouts...), o.DefaultLayout) {
		if err := o.checkLayout(l); err != nil {
			if i == len(o.Layouts) {
				return fmt.Errorf("default layout: %w", err)
			}
			return fmt.Errorf("layout %d: %w", i, err)
		}
	}
	return nil
}

func (s ScrollSpec) check(name string) error {
	if s.TileWidth <= 0 || s.Copies == 0 {
		return invalid("%s tile width %v, copies %d", name, s.TileWidth, s.Copies)
	}
	return nil
}

func (o ObstacleSpec) checkLayout(l GapLayout) error {
	switch {
	case l.TopHeight <= 0:
		return invalid("top height %v", l.TopHeight)
	case l.BottomY-l.TopHeight != o.Gap:
		return invalid("gap %v, want %v", l.BottomY-l.TopHeight, o.Gap)
	case l.BottomY >= o.FloorY:
		return invalid("bottom y %v at or below floor %v", l.BottomY, o.FloorY)
	case l.BottomImage < 1 || l.BottomImage > 3:
		return invalid("bottom image %d outside 1..3", l.BottomImage)
	}
	return nil
}
