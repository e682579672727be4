package ai

import (
	"strings"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// Threat records which enemy tanks can fire into a cell this turn
type Threat uint8

const (
	ThreatNone  Threat = 0
	ThreatTank0 Threat = 1 << 0
	ThreatTank1 Threat = 1 << 1
	ThreatBoth         = ThreatTank0 | ThreatTank1
)

// ThreatFrom returns the threat bit of one enemy slot
func ThreatFrom(slot int) Threat { return Threat(1 << slot) }

func (t Threat) Has(slot int) bool  { return t&ThreatFrom(slot) != 0 }
func (t Threat) IsDangerous() bool { return t != ThreatNone }

// Only reports whether the threat comes from exactly the given slot
func (t Threat) Only(slot int) bool { return t == ThreatFrom(slot) }

func (t Threat) String() string {
	switch t {
	case ThreatNone:
		return "none"
	case ThreatTank0:
		return "tank0"
	case ThreatTank1:
		return "tank1"
	case ThreatBoth:
		return "both"
	default:
		return "unknown"
	}
}

// DangerMap marks every cell an enemy tank could hit with a shot this turn
type DangerMap [core.Height][core.Width]Threat

// At returns the threat on c. Cells off the field are safe.
func (m DangerMap) At(c core.Coordinate) Threat {
	if !c.IsValid() {
		return ThreatNone
	}
	return m[c.Y][c.X]
}

// Dangerous reports whether any enemy tank can hit c this turn
func (m DangerMap) Dangerous(c core.Coordinate) bool {
	return m.At(c).IsDangerous()
}

// ComputeDangerMap scans the four fire lanes of every live enemy tank that is not on
// cooldown. Water is skipped without being marked, tanks are marked and do not stop
// the scan, any other terrain stops it unmarked.
func ComputeDangerMap(view FieldView, enemySide int) DangerMap {
	var m DangerMap
	for slot := 0; slot < core.TanksPerSide; slot++ {
		tank := view.Tank(enemySide, slot)
		if !tank.Alive || view.ShotLastTurn(enemySide, slot) {
			continue
		}
		threat := ThreatFrom(slot)
		for _, dir := range core.Directions {
			for c := tank.Pos.Move(dir); c.IsValid(); c = c.Move(dir) {
				cell := view.Cell(c)
				if cell.Terrain == core.TerrainWater {
					continue
				}
				if cell.Terrain != core.TerrainNone {
					break
				}
				m[c.Y][c.X] |= threat
			}
		}
	}
	return m
}

// String renders the map with one digit per cell
func (m *DangerMap) String() string {
	var sb strings.Builder
	for y := 0; y < core.Height; y++ {
		for x := 0; x < core.Width; x++ {
			sb.WriteByte('0' + byte(m[y][x]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
