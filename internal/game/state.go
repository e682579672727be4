package game

import "github.com/mitchelldurbincs/tank2/internal/game/core"

// Snapshot is a comparable copy of everything RevertTurn must restore
type Snapshot struct {
	Field [core.Height][core.Width]core.Cell
	Tanks [core.SideCount][core.TanksPerSide]core.Tank
	Bases [core.SideCount]core.Base
	Turn  int
}

// Snapshot captures the current field, tanks, bases and turn
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Field: e.field,
		Tanks: e.tanks,
		Bases: e.bases,
		Turn:  e.turn,
	}
}
