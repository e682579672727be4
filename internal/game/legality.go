package game

import (
	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// ValidateAction explains why an action is illegal for the given tank, or returns nil.
// Destinations are checked against the current positions of all tanks.
func (e *Engine) ValidateAction(side, slot int, action core.Action) error {
	id := core.TankID{Side: side, Slot: slot}
	if !id.Valid() {
		return core.WrapActionError(id, action, e.turn, core.ErrInvalidTank)
	}

	switch {
	case action == core.Invalid:
		return core.WrapActionError(id, action, e.turn, core.ErrNoAction)
	case action.IsShoot():
		if e.ShotLastTurn(side, slot) {
			return core.WrapActionError(id, action, e.turn, core.ErrShootCooldown)
		}
		return nil
	case action.IsMove():
		dest := e.tanks[side][slot].Pos.Move(action.Direction())
		if !dest.IsValid() {
			return core.WrapActionError(id, action, e.turn, core.ErrOutOfBounds)
		}
		if !e.Cell(dest).IsEmpty() {
			return core.WrapActionError(id, action, e.turn, core.ErrCellBlocked)
		}
		return nil
	case action == core.Stay:
		return nil
	default:
		return core.WrapActionError(id, action, e.turn, core.ErrNoAction)
	}
}

// ActionLegal reports whether the tank may perform action this turn
func (e *Engine) ActionLegal(side, slot int, action core.Action) bool {
	return e.ValidateAction(side, slot, action) == nil
}

// ActionsLegal checks the pending action of every live tank
func (e *Engine) ActionsLegal() bool {
	return e.firstIllegal() == nil
}

// firstIllegal returns the error of the first live tank whose pending action is illegal
func (e *Engine) firstIllegal() error {
	for _, id := range core.AllTanks {
		if !e.tanks[id.Side][id.Slot].Alive {
			continue
		}
		if err := e.ValidateAction(id.Side, id.Slot, e.next[id.Side][id.Slot]); err != nil {
			return err
		}
	}
	return nil
}
