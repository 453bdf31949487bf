package game

// Phase is the round's position in the playing → game-over state machine.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// GameState is the per-round score and playing flag. Playing only ever goes
// from true to false; a new round starts from a fresh GameState.
type GameState struct {
	Playing bool
	Score   int64
}

func (s GameState) Phase() Phase {
	if s.Playing {
		return PhasePlaying
	}
	return PhaseGameOver
}

// InputState is replaced wholesale by every input event.
//
// JumpKeyReleased is the release gate: a press only jumps while it is open,
// the jump closes it, and releasing the key opens it again. Holding the key
// therefore jumps once.
type InputState struct {
	JumpRequested   bool
	JumpKeyReleased bool
}

// Pressed returns the state following a jump press.
func (in InputState) Pressed() InputState {
	return InputState{JumpRequested: true, JumpKeyReleased: in.JumpKeyReleased}
}

// Released returns the state following a jump release.
func (in InputState) Released() InputState {
	return InputState{JumpRequested: false, JumpKeyReleased: true}
}

func (in InputState) jumpArmed() bool {
	return in.JumpRequested && in.JumpKeyReleased
}
