package game

import (
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
)

type undoKind uint8

const (
	undoTerrain undoKind = iota
	undoTank
	undoBase
)

// undoEvent records one item that left a cell during a turn
type undoEvent struct {
	kind    undoKind
	at      core.Coordinate
	terrain core.Terrain
	tank    core.TankID
	side    int
	turn    int
}

// undoLog is a stack of undo events tagged with the turn that produced them
type undoLog []undoEvent

func (l *undoLog) push(ev undoEvent) { *l = append(*l, ev) }

// popTurn removes and returns the events of the given turn, newest first
func (l *undoLog) popTurn(turn int) []undoEvent {
	var out []undoEvent
	for n := len(*l); n > 0 && (*l)[n-1].turn == turn; n-- {
		out = append(out, (*l)[n-1])
		*l = (*l)[:n-1]
	}
	return out
}

// RevertTurn restores the state from before the last applied turn.
// It returns false at turn 1.
func (e *Engine) RevertTurn() bool {
	if e.turn == 1 {
		e.logger.Debug().Err(core.ErrTurnUnderflow).Msg("Revert ignored")
		return false
	}

	e.turn--
	undone := e.log.popTurn(e.turn)
	for _, ev := range undone {
		e.undo(ev)
	}

	record := e.history[e.turn]
	for side := range e.tanks {
		for slot := range e.tanks[side] {
			e.tanks[side][slot].StayCount = record.stays[side][slot]
		}
	}
	e.history = e.history[:e.turn]
	e.resetPending()
	e.ended = e.GetResult().IsOver()

	e.logger.Debug().Int("turn", e.turn).Int("undone", len(undone)).Msg("Turn reverted")
	e.publish(events.NewTurnRevertedEvent(e.gameID, e.turn, len(undone)))
	return true
}

func (e *Engine) undo(ev undoEvent) {
	cell := e.cellAt(ev.at)
	switch ev.kind {
	case undoTerrain:
		cell.Terrain = ev.terrain
	case undoBase:
		e.bases[ev.side].Alive = true
		cell.Terrain = core.TerrainBase
	case undoTank:
		tank := &e.tanks[ev.tank.Side][ev.tank.Slot]
		if tank.Alive {
			cur := e.cellAt(tank.Pos)
			cur.Tanks = cur.Tanks.Without(ev.tank)
		} else {
			tank.Alive = true
		}
		tank.Pos = ev.at
		cell.Tanks = cell.Tanks.With(ev.tank)
	}
}
