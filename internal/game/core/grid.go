package core

// Field geometry
const (
	Width        = 9
	Height       = 9
	CellCount    = Width * Height
	SideCount    = 2
	TanksPerSide = 2
)

var basePositions = [SideCount]Coordinate{
	{X: Width / 2, Y: 0},
	{X: Width / 2, Y: Height - 1},
}

var tankStarts = [SideCount][TanksPerSide]Coordinate{
	{{X: Width/2 - 2, Y: 0}, {X: Width/2 + 2, Y: 0}},
	{{X: Width/2 + 2, Y: Height - 1}, {X: Width/2 - 2, Y: Height - 1}},
}

// BasePosition returns the fixed base cell of a side
func BasePosition(side int) Coordinate {
	return basePositions[side]
}

// TankStart returns the initial cell of a tank
func TankStart(side, slot int) Coordinate {
	return tankStarts[side][slot]
}

// ValidSide reports whether side is 0 or 1
func ValidSide(side int) bool { return side >= 0 && side < SideCount }

// ValidSlot reports whether slot is 0 or 1
func ValidSlot(slot int) bool { return slot >= 0 && slot < TanksPerSide }

// Opponent returns the other side
func Opponent(side int) int { return 1 - side }

// SideOfBase returns the side whose base sits on c, or -1
func SideOfBase(c Coordinate) int {
	for side, pos := range basePositions {
		if pos == c {
			return side
		}
	}
	return -1
}

// FieldMask marks cells of the field, three rows per word, 27 bits per word:
// cell (x,y) is bit (y%3)*Width+x of word y/3.
type FieldMask [3]uint32

// Has reports whether the mask covers c
func (m FieldMask) Has(c Coordinate) bool {
	if !c.IsValid() {
		return false
	}
	return m[c.Y/3]&(1<<uint((c.Y%3)*Width+c.X)) != 0
}

// With returns a copy of the mask covering c as well
func (m FieldMask) With(c Coordinate) FieldMask {
	if c.IsValid() {
		m[c.Y/3] |= 1 << uint((c.Y%3)*Width+c.X)
	}
	return m
}

// DecodeTerrain expands the three terrain masks into a per-cell terrain grid.
// Overlapping bits resolve with priority brick > water > steel.
func DecodeTerrain(brick, water, steel FieldMask) [Height][Width]Terrain {
	var out [Height][Width]Terrain
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := Coordinate{X: x, Y: y}
			switch {
			case brick.Has(c):
				out[y][x] = TerrainBrick
			case water.Has(c):
				out[y][x] = TerrainWater
			case steel.Has(c):
				out[y][x] = TerrainSteel
			}
		}
	}
	return out
}
