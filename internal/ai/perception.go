package ai

import (
	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// Relation classifies where an enemy tank stands relative to one of ours
type Relation int

const (
	// RelationOverlap: both tanks share a cell
	RelationOverlap Relation = iota
	// RelationClearShot: aligned with nothing that stops a shot in between
	RelationClearShot
	// RelationBrickBlocked: aligned with exactly one brick in between
	RelationBrickBlocked
	// RelationDiagonal: one column and one row apart
	RelationDiagonal
	// RelationOffsetColumn: in a neighbouring column, more than one row apart
	RelationOffsetColumn
	// RelationOffsetRow: in a neighbouring row, more than one column apart
	RelationOffsetRow
	// RelationFar: no interaction expected soon
	RelationFar
)

func (r Relation) String() string {
	switch r {
	case RelationOverlap:
		return "overlap"
	case RelationClearShot:
		return "clear-shot"
	case RelationBrickBlocked:
		return "brick-blocked"
	case RelationDiagonal:
		return "diagonal"
	case RelationOffsetColumn:
		return "offset-column"
	case RelationOffsetRow:
		return "offset-row"
	case RelationFar:
		return "far"
	default:
		return "unknown"
	}
}

// Perception pairs a relation with the shot that would reach the enemy.
// Shot is Stay unless the relation is ClearShot or BrickBlocked.
type Perception struct {
	Relation Relation
	Shot     core.Action
}

var farAway = Perception{Relation: RelationFar, Shot: core.Stay}

// Perceive classifies enemy tank enemySlot as seen from tank slot of side
func Perceive(view FieldView, side, slot, enemySlot int) Perception {
	me := view.Tank(side, slot)
	enemy := view.Tank(core.Opponent(side), enemySlot)
	if !me.Alive || !enemy.Alive {
		return farAway
	}

	dx, dy := abs(me.Pos.X-enemy.Pos.X), abs(me.Pos.Y-enemy.Pos.Y)
	switch {
	case dx > 1 && dy > 1:
		return farAway
	case dx == 0 && dy == 0:
		return Perception{Relation: RelationOverlap, Shot: core.Stay}
	case dx == 0 || dy == 0:
		return perceiveAligned(view, side, slot, me.Pos, enemy.Pos)
	case dx == 1 && dy == 1:
		return Perception{Relation: RelationDiagonal, Shot: core.Stay}
	case dx == 1:
		return Perception{Relation: RelationOffsetColumn, Shot: core.Stay}
	default:
		return Perception{Relation: RelationOffsetRow, Shot: core.Stay}
	}
}

// perceiveAligned counts bricks on the line of fire. Steel, the teammate or our own
// base on the line make the enemy unreachable, as do two or more bricks.
func perceiveAligned(view FieldView, side, slot int, from, to core.Coordinate) Perception {
	mate := core.TankID{Side: side, Slot: 1 - slot}
	ownBase := core.BasePosition(side)

	bricks := 0
	for _, c := range between(from, to) {
		cell := view.Cell(c)
		if cell.Terrain == core.TerrainSteel || cell.Tanks.Has(mate) || c == ownBase {
			return farAway
		}
		if cell.Terrain == core.TerrainBrick {
			bricks++
		}
	}

	shot := core.ShootAction(from.DirectionTo(to))
	switch bricks {
	case 0:
		return Perception{Relation: RelationClearShot, Shot: shot}
	case 1:
		return Perception{Relation: RelationBrickBlocked, Shot: shot}
	default:
		return farAway
	}
}

// ClearLine reports whether only empty cells and water lie strictly between two
// aligned coordinates. Coincident or unaligned coordinates have no clear line.
func ClearLine(view CellReader, from, to core.Coordinate) bool {
	if from.DirectionTo(to) == core.NoDirection {
		return false
	}
	for _, c := range between(from, to) {
		cell := view.Cell(c)
		if !cell.IsEmpty() && cell.Terrain != core.TerrainWater {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
