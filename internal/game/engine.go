package game

import (
	"time"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/mitchelldurbincs/tank2/internal/game/rules"
	"github.com/rs/zerolog"
)

// turnRecord is the action history entry of one applied turn
type turnRecord struct {
	actions [core.SideCount][core.TanksPerSide]core.Action
	// stay counters as they were before the turn
	stays [core.SideCount][core.TanksPerSide]int
}

// Engine owns the field, the turn counter, the action history and the undo log.
// It is not safe for concurrent use.
type Engine struct {
	field [core.Height][core.Width]core.Cell
	tanks [core.SideCount][core.TanksPerSide]core.Tank
	bases [core.SideCount]core.Base
	turn  int

	mySide int
	next   [core.SideCount][core.TanksPerSide]core.Action

	// history[t] holds turn t; history[0] is a placeholder of stays
	history []turnRecord
	log     undoLog

	gameID        string
	logger        zerolog.Logger
	bus           events.Publisher
	resultChecker *rules.ResultChecker
	turnProcessor *TurnProcessor
	startTime     time.Time
	ended         bool
}

// SetNextAction records the action a tank will perform when the turn is applied.
// Legality is checked by ApplyTurn.
func (e *Engine) SetNextAction(side, slot int, action core.Action) {
	if !core.ValidSide(side) || !core.ValidSlot(slot) {
		e.logger.Warn().Int("side", side).Int("slot", slot).Msg("Ignoring action for unknown tank")
		return
	}
	e.next[side][slot] = action
}

// NextAction returns the pending action of a tank
func (e *Engine) NextAction(side, slot int) core.Action {
	if !core.ValidSide(side) || !core.ValidSlot(slot) {
		return core.Invalid
	}
	return e.next[side][slot]
}

// ApplyTurn executes the pending actions of every tank and advances to the next
// turn. It returns false without touching any state if a live tank's action is illegal.
func (e *Engine) ApplyTurn() bool {
	return e.turnProcessor.ProcessTurn()
}

// GetResult reports whether the match is over and who won
func (e *Engine) GetResult() core.GameResult {
	var sides [core.SideCount]rules.SideState
	for side := range sides {
		sides[side].BaseAlive = e.bases[side].Alive
		for slot := 0; slot < core.TanksPerSide; slot++ {
			sides[side].TanksAlive[slot] = e.tanks[side][slot].Alive
		}
	}
	return e.resultChecker.Evaluate(sides, e.turn)
}

// Cell returns the content of c. Coordinates off the field read as an empty cell.
func (e *Engine) Cell(c core.Coordinate) core.Cell {
	if !c.IsValid() {
		return core.Cell{}
	}
	return e.field[c.Y][c.X]
}

func (e *Engine) Tank(side, slot int) core.Tank { return e.tanks[side][slot] }
func (e *Engine) Base(side int) core.Base       { return e.bases[side] }
func (e *Engine) Turn() int                     { return e.turn }
func (e *Engine) MySide() int                   { return e.mySide }
func (e *Engine) GameID() string                { return e.gameID }
func (e *Engine) MaxTurns() int                 { return e.resultChecker.MaxTurns() }

// PreviousAction returns what the tank did on the previous turn. Stay is reported on turn 1.
func (e *Engine) PreviousAction(side, slot int) core.Action {
	return e.history[e.turn-1].actions[side][slot]
}

// ShotLastTurn reports whether the tank is on shooting cooldown
func (e *Engine) ShotLastTurn(side, slot int) bool {
	return e.PreviousAction(side, slot).IsShoot()
}

// StayCount returns how many turns in a row the tank has not moved
func (e *Engine) StayCount(side, slot int) int {
	return e.tanks[side][slot].StayCount
}

func (e *Engine) cellAt(c core.Coordinate) *core.Cell {
	return &e.field[c.Y][c.X]
}

func (e *Engine) resetPending() {
	for side := range e.next {
		for slot := range e.next[side] {
			e.next[side][slot] = core.Invalid
		}
	}
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// checkGameOver publishes GameEnded the first time the match reaches a final result
func (e *Engine) checkGameOver(turnLogger zerolog.Logger) {
	result := e.GetResult()
	if !result.IsOver() || e.ended {
		return
	}
	e.ended = true
	turnLogger.Info().Str("result", result.String()).Msg("Game over")
	e.publish(events.NewGameEndedEvent(e.gameID, e.turn, result, time.Since(e.startTime)))
}
