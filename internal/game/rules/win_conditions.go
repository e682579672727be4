package rules

import (
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/rs/zerolog"
)

// DefaultMaxTurns is the turn limit used when none is configured
const DefaultMaxTurns = 100

// SideState is what the result check needs to know about one side
type SideState struct {
	TanksAlive [core.TanksPerSide]bool
	BaseAlive  bool
}

// Failed is true once both tanks are destroyed or the base has fallen
func (s SideState) Failed() bool {
	if !s.BaseAlive {
		return true
	}
	for _, alive := range s.TanksAlive {
		if alive {
			return false
		}
	}
	return true
}

// ResultChecker handles game over detection and winner determination
type ResultChecker struct {
	logger   zerolog.Logger
	maxTurns int
}

// NewResultChecker creates a new result checker
func NewResultChecker(logger zerolog.Logger, maxTurns int) *ResultChecker {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &ResultChecker{
		logger:   logger.With().Str("component", "ResultChecker").Logger(),
		maxTurns: maxTurns,
	}
}

// MaxTurns returns the configured turn limit
func (rc *ResultChecker) MaxTurns() int { return rc.maxTurns }

// Evaluate determines the match result from both sides' state at the given turn.
// A side that fails alone loses even past the turn limit.
func (rc *ResultChecker) Evaluate(sides [core.SideCount]SideState, turn int) core.GameResult {
	fail0, fail1 := sides[0].Failed(), sides[1].Failed()

	var result core.GameResult
	switch {
	case fail0 && fail1:
		result = core.ResultDraw
	case fail0:
		result = core.WinnerResult(1)
	case fail1:
		result = core.WinnerResult(0)
	case turn > rc.maxTurns:
		result = core.ResultDraw
	default:
		result = core.ResultOngoing
	}

	rc.logger.Debug().
		Int("turn", turn).
		Bool("side0_failed", fail0).
		Bool("side1_failed", fail1).
		Str("result", result.String()).
		Msg("Result check complete")
	return result
}
