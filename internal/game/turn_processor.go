package game

import (
	"errors"
	"sort"
	"time"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/rs/zerolog"
)

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// destruction is one item hit by a shot this turn
type destruction struct {
	at      core.Coordinate
	terrain core.Terrain
	tank    core.TankID
	isTank  bool
}

// order sorts by column, then row, then item with terrain before tanks
func (d destruction) order() int {
	item := int(d.terrain)
	if d.isTank {
		item = 8 + d.tank.Side*core.TanksPerSide + d.tank.Slot
	}
	return (d.at.X*core.Height+d.at.Y)*16 + item
}

// ProcessTurn executes a complete game turn
func (tp *TurnProcessor) ProcessTurn() bool {
	e := tp.engine
	turnLogger := tp.logger.With().Int("turn", e.turn).Logger()

	if err := e.firstIllegal(); err != nil {
		tp.rejectTurn(turnLogger, err)
		return false
	}

	turnLogger.Debug().Msg("Starting turn")
	turnStartTime := time.Now()

	record := turnRecord{actions: e.next}
	var alive [core.SideCount][core.TanksPerSide]bool
	for side := range e.tanks {
		for slot := range e.tanks[side] {
			record.stays[side][slot] = e.tanks[side][slot].StayCount
			alive[side][slot] = e.tanks[side][slot].Alive
		}
	}
	e.history = append(e.history, record)

	tp.processMovementPhase()
	destroyed := tp.processFirePhase(turnLogger)
	tp.updateStayCounts()

	actions := e.next
	e.resetPending()
	e.turn++

	turnLogger.Debug().
		Int("destroyed", destroyed).
		Dur("elapsed", time.Since(turnStartTime)).
		Msg("Turn finished")
	e.publish(events.NewTurnAppliedEvent(e.gameID, e.turn-1, actions, alive, destroyed, time.Since(turnStartTime)))
	e.checkGameOver(turnLogger)
	return true
}

func (tp *TurnProcessor) rejectTurn(turnLogger zerolog.Logger, err error) {
	turnLogger.Warn().Err(err).Msg("Rejected turn with illegal action")

	var actionErr *core.ActionError
	if errors.As(err, &actionErr) {
		tp.engine.publish(events.NewActionRejectedEvent(tp.engine.gameID, tp.engine.turn, actionErr.Tank, actionErr.Action, actionErr.Err))
	}
}

// processMovementPhase relocates every live tank that moves
func (tp *TurnProcessor) processMovementPhase() {
	e := tp.engine
	for _, id := range core.AllTanks {
		tank := &e.tanks[id.Side][id.Slot]
		action := e.next[id.Side][id.Slot]
		if !tank.Alive || !action.IsMove() {
			continue
		}

		e.log.push(undoEvent{kind: undoTank, at: tank.Pos, tank: id, turn: e.turn})
		from := e.cellAt(tank.Pos)
		from.Tanks = from.Tanks.Without(id)
		tank.Pos = tank.Pos.Move(action.Direction())
		to := e.cellAt(tank.Pos)
		to.Tanks = to.Tanks.With(id)
	}
}

// processFirePhase traces every shot against the post-move field, then
// removes everything that was hit. Returns the number of items destroyed.
func (tp *TurnProcessor) processFirePhase(turnLogger zerolog.Logger) int {
	e := tp.engine
	hits := make(map[int]destruction)

	for _, id := range core.AllTanks {
		tank := e.tanks[id.Side][id.Slot]
		action := e.next[id.Side][id.Slot]
		if !tank.Alive || !action.IsShoot() {
			continue
		}
		for _, d := range tp.traceShot(turnLogger, id, tank.Pos, action) {
			hits[d.order()] = d
		}
	}

	keys := make([]int, 0, len(hits))
	for k := range hits {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	destroyed := 0
	for _, k := range keys {
		if tp.resolve(turnLogger, hits[k]) {
			destroyed++
		}
	}
	return destroyed
}

// traceShot follows a shot until it leaves the field or reaches a blocking cell
func (tp *TurnProcessor) traceShot(turnLogger zerolog.Logger, shooter core.TankID, from core.Coordinate, action core.Action) []destruction {
	e := tp.engine
	single := e.Cell(from).Tanks.ExactlyOne()

	for pos := from.Move(action.Direction()); pos.IsValid(); pos = pos.Move(action.Direction()) {
		cell := e.Cell(pos)
		if !cell.BlocksShot() {
			continue
		}

		if single && cell.Tanks.ExactlyOne() {
			target := cell.Tanks.Tanks()[0]
			reply := e.next[target.Side][target.Slot]
			if reply.IsShoot() && action.IsOpposite(reply) {
				turnLogger.Debug().
					Str("shooter", shooter.String()).
					Str("defender", target.String()).
					Msg("Opposing shots cancelled")
				e.publish(events.NewShotsCancelledEvent(e.gameID, e.turn, shooter, target))
				return nil
			}
		}

		var out []destruction
		if cell.Terrain != core.TerrainNone {
			out = append(out, destruction{at: pos, terrain: cell.Terrain})
		}
		for _, id := range cell.Tanks.Tanks() {
			out = append(out, destruction{at: pos, tank: id, isTank: true})
		}
		return out
	}
	return nil
}

// resolve removes one hit item and logs it for undo. Steel survives.
func (tp *TurnProcessor) resolve(turnLogger zerolog.Logger, d destruction) bool {
	e := tp.engine
	cell := e.cellAt(d.at)

	if d.isTank {
		tank := &e.tanks[d.tank.Side][d.tank.Slot]
		e.log.push(undoEvent{kind: undoTank, at: d.at, tank: d.tank, turn: e.turn})
		cell.Tanks = cell.Tanks.Without(d.tank)
		tank.Alive = false
		tank.Pos = core.NoCoordinate
		turnLogger.Info().Str("tank", d.tank.String()).Str("at", d.at.String()).Msg("Tank destroyed")
		e.publish(events.NewTankDestroyedEvent(e.gameID, e.turn, d.at, d.tank))
		return true
	}

	switch d.terrain {
	case core.TerrainSteel, core.TerrainWater:
		return false
	case core.TerrainBase:
		side := core.SideOfBase(d.at)
		e.bases[side].Alive = false
		e.log.push(undoEvent{kind: undoBase, at: d.at, side: side, turn: e.turn})
		turnLogger.Info().Int("side", side).Msg("Base destroyed")
	default:
		e.log.push(undoEvent{kind: undoTerrain, at: d.at, terrain: d.terrain, turn: e.turn})
	}
	cell.Terrain = core.TerrainNone
	e.publish(events.NewTerrainDestroyedEvent(e.gameID, e.turn, d.at, d.terrain))
	return true
}

// updateStayCounts resets the counter of tanks that moved and bumps everyone else
func (tp *TurnProcessor) updateStayCounts() {
	e := tp.engine
	for _, id := range core.AllTanks {
		tank := &e.tanks[id.Side][id.Slot]
		if e.next[id.Side][id.Slot].IsMove() {
			tank.StayCount = 0
		} else {
			tank.StayCount++
		}
	}
}
