// Package selfplay runs commander-versus-commander matches on generated maps.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mitchelldurbincs/tank2/internal/ai"
	"github.com/mitchelldurbincs/tank2/internal/game"
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/rs/zerolog"
)

// ErrTurnRejected is returned when the engine refuses the commanders' actions
var ErrTurnRejected = errors.New("engine rejected turn")

// Match is one engine with a commander per side
type Match struct {
	Engine     *game.Engine
	Commanders [core.SideCount]*ai.Commander
}

// NewMatch attaches one commander per side to engine
func NewMatch(engine *game.Engine, settings ai.Settings, logger zerolog.Logger) *Match {
	m := &Match{Engine: engine}
	for side := range m.Commanders {
		m.Commanders[side] = ai.NewCommander(engine, side, settings, logger)
	}
	return m
}

// Step asks both commanders for actions and applies one turn
func (m *Match) Step() error {
	for _, id := range core.AllTanks {
		action := m.Commanders[id.Side].ChooseAction(id.Slot)
		m.Engine.SetNextAction(id.Side, id.Slot, action)
	}
	if !m.Engine.ApplyTurn() {
		return fmt.Errorf("turn %d: %w", m.Engine.Turn(), ErrTurnRejected)
	}
	return nil
}

// Play steps the match until it has a final result or ctx is cancelled
func (m *Match) Play(ctx context.Context) (core.GameResult, error) {
	for {
		if result := m.Engine.GetResult(); result.IsOver() {
			return result, nil
		}
		if err := ctx.Err(); err != nil {
			return core.ResultOngoing, err
		}
		if err := m.Step(); err != nil {
			return core.ResultOngoing, err
		}
	}
}

// MatchResult summarizes one finished match
type MatchResult struct {
	Index   int
	GameID  string
	Seed    int64
	Result  core.GameResult
	Turns   int
	Board   string
	Elapsed time.Duration
}
