package ai

import (
	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// fakeView is a hand-built field for tests. Tanks start destroyed and bases are placed.
type fakeView struct {
	cells [core.Height][core.Width]core.Cell
	tanks [core.SideCount][core.TanksPerSide]core.Tank
	turn  int
	shot  [core.SideCount][core.TanksPerSide]bool
	stays [core.SideCount][core.TanksPerSide]int
}

func newFakeView() *fakeView {
	v := &fakeView{turn: 1}
	for _, id := range core.AllTanks {
		v.tanks[id.Side][id.Slot] = core.Tank{ID: id, Pos: core.NoCoordinate}
	}
	for side := 0; side < core.SideCount; side++ {
		v.set(core.BasePosition(side), core.TerrainBase)
	}
	return v
}

func (v *fakeView) set(c core.Coordinate, t core.Terrain) *fakeView {
	v.cells[c.Y][c.X].Terrain = t
	return v
}

func (v *fakeView) place(side, slot int, c core.Coordinate) *fakeView {
	id := core.TankID{Side: side, Slot: slot}
	v.tanks[side][slot] = core.Tank{ID: id, Alive: true, Pos: c}
	v.cells[c.Y][c.X].Tanks = v.cells[c.Y][c.X].Tanks.With(id)
	return v
}

func (v *fakeView) Cell(c core.Coordinate) core.Cell {
	if !c.IsValid() {
		return core.Cell{}
	}
	return v.cells[c.Y][c.X]
}

func (v *fakeView) Tank(side, slot int) core.Tank    { return v.tanks[side][slot] }
func (v *fakeView) Turn() int                        { return v.turn }
func (v *fakeView) ShotLastTurn(side, slot int) bool { return v.shot[side][slot] }
func (v *fakeView) StayCount(side, slot int) int     { return v.stays[side][slot] }

func (v *fakeView) ActionLegal(side, slot int, a core.Action) bool {
	switch {
	case a == core.Invalid:
		return false
	case a.IsShoot():
		return !v.shot[side][slot]
	case a.IsMove():
		dest := v.tanks[side][slot].Pos.Move(a.Direction())
		return dest.IsValid() && v.Cell(dest).IsEmpty()
	default:
		return true
	}
}

func at(x, y int) core.Coordinate { return core.NewCoordinate(x, y) }
