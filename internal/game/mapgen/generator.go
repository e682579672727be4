package mapgen

import (
	"math/rand"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	BrickPercent int // chance per cell, in percent
	SteelPercent int
	WaterPercent int
	// MaxAttempts bounds the retries spent looking for a connected layout
	MaxAttempts int
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig() MapConfig {
	return MapConfig{
		BrickPercent: 35,
		SteelPercent: 8,
		WaterPercent: 8,
		MaxAttempts:  50,
	}
}

// Masks is a generated terrain layout in the engine's input format
type Masks struct {
	Brick core.FieldMask
	Water core.FieldMask
	Steel core.FieldMask
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// Generate creates a point-symmetric layout. Bases, tank starts and the centre stay
// clear. Layouts where a tank cannot reach the enemy base through cells free of steel
// and water are discarded; after MaxAttempts the last layout is stripped of steel and water.
func (g *Generator) Generate() Masks {
	var masks Masks
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		masks = g.roll()
		if Connected(masks) {
			return masks
		}
	}
	return Masks{Brick: masks.Brick}
}

// roll fills the upper half of the field and mirrors it through the centre
func (g *Generator) roll() Masks {
	var m Masks
	for idx := 0; idx < core.CellCount/2; idx++ {
		c := core.FromIndex(idx)
		if reserved(c) {
			continue
		}
		mirror := Mirror(c)

		r := g.rng.Intn(100)
		switch {
		case r < g.config.BrickPercent:
			m.Brick = m.Brick.With(c).With(mirror)
		case r < g.config.BrickPercent+g.config.SteelPercent:
			m.Steel = m.Steel.With(c).With(mirror)
		case r < g.config.BrickPercent+g.config.SteelPercent+g.config.WaterPercent:
			m.Water = m.Water.With(c).With(mirror)
		}
	}
	return m
}

// Mirror returns the cell opposite c through the centre of the field
func Mirror(c core.Coordinate) core.Coordinate {
	return core.NewCoordinate(core.Width-1-c.X, core.Height-1-c.Y)
}

var centre = core.NewCoordinate(core.Width/2, core.Height/2)

func reserved(c core.Coordinate) bool {
	if c == centre {
		return true
	}
	for side := 0; side < core.SideCount; side++ {
		if c == core.BasePosition(side) {
			return true
		}
		for slot := 0; slot < core.TanksPerSide; slot++ {
			if c == core.TankStart(side, slot) {
				return true
			}
		}
	}
	return false
}

// Connected reports whether every tank start reaches the enemy base without crossing
// steel or water. Bricks count as passable since they can be shot away.
func Connected(m Masks) bool {
	for side := 0; side < core.SideCount; side++ {
		reach := flood(m, core.TankStart(side, 0), core.BasePosition(side))
		target := core.BasePosition(core.Opponent(side))
		for slot := 0; slot < core.TanksPerSide; slot++ {
			if !reach[core.TankStart(side, slot).ToIndex()] || !reach[target.ToIndex()] {
				return false
			}
		}
	}
	return true
}

// flood marks the cells reachable from start, never entering the searcher's own base
func flood(m Masks, start, ownBase core.Coordinate) [core.CellCount]bool {
	var seen [core.CellCount]bool
	seen[start.ToIndex()] = true
	queue := []core.Coordinate{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range core.Directions {
			next := cur.Move(d)
			if !next.IsValid() || seen[next.ToIndex()] || next == ownBase {
				continue
			}
			if m.Steel.Has(next) || m.Water.Has(next) {
				continue
			}
			seen[next.ToIndex()] = true
			queue = append(queue, next)
		}
	}
	return seen
}
