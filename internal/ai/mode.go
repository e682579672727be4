package ai

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Mode is the behaviour a tank followed for its last decision
type Mode int

const (
	// ModeIdle - tank destroyed or unable to do anything but stay
	ModeIdle Mode = iota

	// ModeExplore - advancing toward the enemy base, clearing bricks on the way
	ModeExplore

	// ModeAttack - firing at an enemy tank in a clear line
	ModeAttack

	// ModeSiege - firing at the enemy base
	ModeSiege
)

// String returns the string representation of a Mode
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeExplore:
		return "Explore"
	case ModeAttack:
		return "Attack"
	case ModeSiege:
		return "Siege"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// IsFiring returns true if the mode fires this turn
func (m Mode) IsFiring() bool {
	return m == ModeAttack || m == ModeSiege
}

// Transition represents a mode change in the history
type Transition struct {
	From   Mode
	To     Mode
	Turn   int
	Reason string
}

// modeMachine tracks one tank's mode and keeps a bounded transition history
type modeMachine struct {
	current        Mode
	history        []Transition
	maxHistorySize int
	logger         zerolog.Logger
}

func newModeMachine(logger zerolog.Logger) *modeMachine {
	return &modeMachine{
		current:        ModeExplore,
		history:        make([]Transition, 0, 16),
		maxHistorySize: 256,
		logger:         logger,
	}
}

// Current returns the current mode
func (mm *modeMachine) Current() Mode { return mm.current }

// TransitionTo switches modes, recording the change when the mode differs
func (mm *modeMachine) TransitionTo(target Mode, turn int, reason string) {
	if target == mm.current {
		return
	}

	transition := Transition{
		From:   mm.current,
		To:     target,
		Turn:   turn,
		Reason: reason,
	}
	mm.addToHistory(transition)
	mm.current = target

	mm.logger.Debug().
		Int("turn", turn).
		Str("from_mode", transition.From.String()).
		Str("to_mode", target.String()).
		Str("reason", reason).
		Msg("Mode transition")
}

// addToHistory adds a transition to the history, maintaining max size
func (mm *modeMachine) addToHistory(transition Transition) {
	mm.history = append(mm.history, transition)

	if len(mm.history) > mm.maxHistorySize {
		// Keep the most recent entries
		mm.history = mm.history[len(mm.history)-mm.maxHistorySize:]
	}
}

// History returns a copy of the transition history
func (mm *modeMachine) History() []Transition {
	history := make([]Transition, len(mm.history))
	copy(history, mm.history)
	return history
}
