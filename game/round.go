package game

import (
	"iter"
	"log"
	"math/rand/v2"
	"time"

	"github.com/plus3/gapbird/config"
	"github.com/plus3/gapbird/ecs"
)

// Round is one play session, from the first tick until the player hits an
// obstacle. It owns the storage and drives the systems. A new round needs a
// new Round; nothing carries over.
type Round struct {
	storage *ecs.Storage
	tuning  config.Tuning
	logger  *log.Logger
	rng     *rand.Rand

	// fixed runs at the animation rate, frame runs once per tick.
	fixed     *ecs.Scheduler
	frame     *ecs.Scheduler
	collision *CollisionSystem

	state *ecs.Singleton[GameState]
	input *ecs.Singleton[InputState]

	player      ecs.EntityId
	step        time.Duration
	accumulator time.Duration
	ticks       int64
	animSteps   int64
	quit        bool
}

type Option func(*Round)

// WithRand replaces the layout generator; useful for reproducible rounds.
func WithRand(rng *rand.Rand) Option {
	return func(r *Round) {
		r.rng = rng
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Round) {
		r.logger = logger
	}
}

// NewRound builds a fresh round: background and ground bands, the player and
// the initial obstacle pairs. It panics when assets or tuning are unusable.
func NewRound(assets Assets, tuning config.Tuning, opts ...Option) *Round {
	assets.mustValidate()
	if err := tuning.Validate(); err != nil {
		panic("game: " + err.Error())
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)

	r := &Round{
		storage: ecs.NewStorage(registry),
		tuning:  tuning,
		logger:  log.Default(),
		step:    time.Duration(float64(time.Second) / tuning.Animation.Rate),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		seed := tuning.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		r.rng = rand.New(rand.NewPCG(seed, seed))
	}

	ecs.NewSingleton(r.storage, tuning)
	r.state = ecs.NewSingleton(r.storage, GameState{Playing: true})
	r.input = ecs.NewSingleton(r.storage, InputState{JumpKeyReleased: true})

	r.spawnBand(assets.Background, tuning.Background, 0)
	r.spawnBand(assets.Ground, tuning.Ground.ScrollSpec, tuning.Ground.Y)
	r.player = r.spawnPlayer(assets.PlayerFrames)
	for _, x := range tuning.Obstacles.InitialX {
		top, bottom := obstaclePair(tuning.Obstacles, x, drawLayout(r.rng, tuning.Obstacles), assets.Obstacles)
		r.storage.Spawn(top...)
		r.storage.Spawn(bottom...)
	}

	r.fixed = ecs.NewScheduler(r.storage)
	r.fixed.Register(&AnimationSystem{})

	r.collision = &CollisionSystem{}
	r.frame = ecs.NewScheduler(r.storage)
	r.frame.Register(&PlayerPhysicsSystem{})
	r.frame.Register(&BackgroundScrollSystem{})
	r.frame.Register(&ObstacleScrollSystem{Rand: r.rng})
	r.frame.Register(&VolumeSyncSystem{})
	r.frame.Register(r.collision)

	r.logger.Printf("round started: %d entities, %d obstacle pairs", r.storage.CollectStats().TotalEntityCount, len(tuning.Obstacles.InitialX))
	return r
}

func (r *Round) spawnBand(image ImageHandle, spec config.ScrollSpec, y float32) {
	for i := range spec.Copies {
		r.storage.Spawn(
			Position{Pos: Vec2{X: float32(i) * spec.TileWidth, Y: y}},
			Sprite{Image: image},
			ScrollTag(spec),
		)
	}
}

func (r *Round) spawnPlayer(frames []ImageHandle) ecs.EntityId {
	p := r.tuning.Player
	pos := Vec2{X: p.X, Y: p.StartY}

	id := r.storage.Create()
	r.storage.Attach(id, Position{Pos: pos})
	r.storage.Attach(id, Animation{FrameCount: uint32(len(frames)), Frames: frames})
	r.storage.Attach(id, CollisionVolume{Origin: pos, Width: p.Width, Height: p.Height})
	return id
}

// Tick advances the round by one frame that took dt of wall time.
//
// While playing: the score goes up by one, the animation catches up with
// wall time, movement and collision run once, then queued entity changes are
// committed. After game over only the animation may keep running, and only
// when the tuning allows it.
func (r *Round) Tick(dt time.Duration) {
	frame := ecs.NewUpdateFrame(dt.Seconds(), r.storage)
	state := r.state.MustGet()
	playing := state.Playing

	r.ticks++
	if playing {
		state.Score++
	}

	if playing || r.tuning.Animation.AfterGameOver {
		r.animate(frame, dt)
	}

	if playing {
		r.frame.Step(frame)
		if !state.Playing {
			r.logger.Printf("game over: score %d after %d ticks (hit entity %d)", state.Score, r.ticks, r.collision.Hit)
		}
	}

	frame.Commands.Flush(r.storage)
}

// animate runs the animation system once per elapsed step. A stalled host
// makes this catch up in one go unless MaxCatchUp bounds it.
func (r *Round) animate(frame *ecs.UpdateFrame, dt time.Duration) {
	r.accumulator += dt
	limit := r.tuning.Animation.MaxCatchUp

	steps := 0
	for r.accumulator >= r.step {
		if limit > 0 && steps == limit {
			r.logger.Printf("animation fell behind: dropping %v", r.accumulator-r.accumulator%r.step)
			r.accumulator %= r.step
			break
		}
		r.fixed.Step(frame)
		r.accumulator -= r.step
		r.animSteps++
		steps++
	}
}

// PressJump records a jump press.
func (r *Round) PressJump() {
	r.input.Set(r.input.MustGet().Pressed())
}

// ReleaseJump records a jump release, re-arming the next press.
func (r *Round) ReleaseJump() {
	r.input.Set(r.input.MustGet().Released())
}

// RequestQuit asks the host to stop. It does not touch the game state.
func (r *Round) RequestQuit() {
	r.quit = true
}

func (r *Round) QuitRequested() bool {
	return r.quit
}

// State returns a copy of the score and playing flag.
func (r *Round) State() GameState {
	return *r.state.MustGet()
}

func (r *Round) Input() InputState {
	return *r.input.MustGet()
}

func (r *Round) Tuning() config.Tuning {
	return r.tuning
}

func (r *Round) Storage() *ecs.Storage {
	return r.storage
}

// Player returns the controllable entity.
func (r *Round) Player() ecs.EntityId {
	return r.player
}

// Drawable is one thing to draw, in back-to-front order.
type Drawable struct {
	Entity ecs.EntityId
	X, Y   float32
	Image  ImageHandle
	// Width and Height crop the image; zero means its natural size.
	Width, Height float32
	// AnchorBottom crops from the bottom edge of the image rather than the top.
	AnchorBottom bool
}

type drawView struct {
	ecs.EntityId
	*Position
	Sprite    *Sprite          `ecs:"optional"`
	Animation *Animation       `ecs:"optional"`
	Volume    *CollisionVolume `ecs:"optional"`
	Obstacle  *ObstacleTag     `ecs:"optional"`
}

// Drawables yields everything with an image after the last tick, scenery
// first and animated entities last.
func (r *Round) Drawables() iter.Seq[Drawable] {
	return func(yield func(Drawable) bool) {
		view := ecs.NewView[drawView](r.storage)

		var animated []Drawable
		for item := range view.Values() {
			d := Drawable{Entity: item.EntityId, X: item.Position.Pos.X, Y: item.Position.Pos.Y}
			switch {
			case item.Animation != nil:
				d.Image = item.Animation.Frame()
				animated = append(animated, d)
				continue
			case item.Sprite != nil:
				d.Image = item.Sprite.Image
			default:
				continue
			}

			if item.Obstacle != nil && item.Volume != nil {
				d.Width, d.Height = item.Volume.Width, item.Volume.Height
				d.AnchorBottom = item.Obstacle.IsTop
			}
			if !yield(d) {
				return
			}
		}

		for _, d := range animated {
			if !yield(d) {
				return
			}
		}
	}
}

// Stats summarises the round for diagnostics.
type Stats struct {
	Ticks          int64
	AnimationSteps int64
	Storage        *ecs.StorageStats
	Systems        []ecs.SystemStats
}

func (r *Round) Stats() Stats {
	return Stats{
		Ticks:          r.ticks,
		AnimationSteps: r.animSteps,
		Storage:        r.storage.CollectStats(),
		Systems:        append(r.fixed.GetStats().Systems, r.frame.GetStats().Systems...),
	}
}
