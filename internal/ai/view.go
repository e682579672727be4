// Package ai decides tank actions from the current engine state: a danger map of
// enemy fire lanes, A* routes toward the enemy base, pairwise perception of the
// enemy tanks and a per-tank commander that combines them.
package ai

import (
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/rules"
)

// CellReader gives read access to field cells
type CellReader interface {
	Cell(c core.Coordinate) core.Cell
}

// FieldView is the read-only engine surface the AI works from. *game.Engine implements it.
type FieldView interface {
	CellReader
	rules.ActionValidator
	Tank(side, slot int) core.Tank
	Turn() int
	ShotLastTurn(side, slot int) bool
	StayCount(side, slot int) int
}

// between returns the cells strictly between two aligned coordinates, starting next to from.
// It returns nil when the coordinates are not aligned.
func between(from, to core.Coordinate) []core.Coordinate {
	dir := from.DirectionTo(to)
	if dir == core.NoDirection {
		return nil
	}
	var out []core.Coordinate
	for c := from.Move(dir); c != to; c = c.Move(dir) {
		out = append(out, c)
	}
	return out
}
