package ai

import "github.com/mitchelldurbincs/tank2/internal/game/core"

// VirtualSteel marks bricks that routes should treat as steel. A mark lapses as
// soon as the cell stops holding a brick.
type VirtualSteel [core.Height][core.Width]bool

func (v *VirtualSteel) Mark(c core.Coordinate) {
	if c.IsValid() {
		v[c.Y][c.X] = true
	}
}

func (v *VirtualSteel) Has(c core.Coordinate) bool {
	return c.IsValid() && v[c.Y][c.X]
}

// Refresh drops marks on cells that are no longer brick
func (v *VirtualSteel) Refresh(view CellReader) {
	for y := 0; y < core.Height; y++ {
		for x := 0; x < core.Width; x++ {
			if v[y][x] && view.Cell(core.NewCoordinate(x, y)).Terrain != core.TerrainBrick {
				v[y][x] = false
			}
		}
	}
}

// Count returns the number of marked cells
func (v *VirtualSteel) Count() int {
	n := 0
	for y := range v {
		for x := range v[y] {
			if v[y][x] {
				n++
			}
		}
	}
	return n
}
