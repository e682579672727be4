package core

import (
	"fmt"
	"math/bits"
)

// Terrain is the static content of a cell. A cell holds exactly one terrain kind.
type Terrain uint8

const (
	TerrainNone Terrain = iota
	TerrainBrick
	TerrainSteel
	TerrainBase
	TerrainWater
)

func (t Terrain) String() string {
	switch t {
	case TerrainNone:
		return "none"
	case TerrainBrick:
		return "brick"
	case TerrainSteel:
		return "steel"
	case TerrainBase:
		return "base"
	case TerrainWater:
		return "water"
	default:
		return fmt.Sprintf("terrain(%d)", uint8(t))
	}
}

// TankID identifies one tank by side and slot
type TankID struct {
	Side, Slot int
}

func (id TankID) Valid() bool { return ValidSide(id.Side) && ValidSlot(id.Slot) }

func (id TankID) bit() Occupants {
	return 1 << uint(id.Side*TanksPerSide+id.Slot)
}

func (id TankID) String() string {
	return fmt.Sprintf("side%d/tank%d", id.Side, id.Slot)
}

// AllTanks lists every tank in (side, slot) order
var AllTanks = [SideCount * TanksPerSide]TankID{
	{Side: 0, Slot: 0}, {Side: 0, Slot: 1},
	{Side: 1, Slot: 0}, {Side: 1, Slot: 1},
}

// Occupants is the set of tanks standing on a cell. Several tanks may share a cell.
type Occupants uint8

const allOccupants Occupants = 1<<(SideCount*TanksPerSide) - 1

func (o Occupants) With(id TankID) Occupants            { return o | id.bit() }
func (o Occupants) Without(id TankID) Occupants         { return o &^ id.bit() }
func (o Occupants) Has(id TankID) bool                  { return o&id.bit() != 0 }
func (o Occupants) Union(other Occupants) Occupants     { return o | other }
func (o Occupants) Intersect(other Occupants) Occupants { return o & other }
func (o Occupants) Complement() Occupants               { return ^o & allOccupants }
func (o Occupants) Count() int                          { return bits.OnesCount8(uint8(o)) }
func (o Occupants) ExactlyOne() bool                    { return o.Count() == 1 }
func (o Occupants) IsEmpty() bool                       { return o == 0 }

// Tanks lists the occupants in (side, slot) order
func (o Occupants) Tanks() []TankID {
	out := make([]TankID, 0, o.Count())
	for _, id := range AllTanks {
		if o.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// SideMask returns the occupants belonging to one side
func SideMask(side int) Occupants {
	return TankID{Side: side, Slot: 0}.bit() | TankID{Side: side, Slot: 1}.bit()
}

// Cell is the content of one grid square
type Cell struct {
	Terrain Terrain
	Tanks   Occupants
}

// IsEmpty is true when the cell holds neither terrain nor tanks
func (c Cell) IsEmpty() bool { return c.Terrain == TerrainNone && c.Tanks.IsEmpty() }

// BlocksShot reports whether a shell travelling through the cell stops here
func (c Cell) BlocksShot() bool { return !c.IsEmpty() && c.Terrain != TerrainWater }

// HasTerrain reports whether the cell holds the given terrain
func (c Cell) HasTerrain(t Terrain) bool { return c.Terrain == t }

// Tank is the engine's view of one tank
type Tank struct {
	ID        TankID
	Alive     bool
	Pos       Coordinate
	StayCount int
}

// Base is a side's headquarters
type Base struct {
	Side  int
	Pos   Coordinate
	Alive bool
}
