package game

import (
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorBlue   = "\033[34m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

var sideColors = [core.SideCount]string{ColorBlue, ColorRed}

// Symbols used by Render
const (
	EmptySymbol   = '.'
	BrickSymbol   = '#'
	SteelSymbol   = '%'
	BaseSymbol    = '*'
	WaterSymbol   = 'W'
	StackedSymbol = '@'
)

// tankSymbols is indexed by side then slot
var tankSymbols = [core.SideCount][core.TanksPerSide]byte{{'b', 'B'}, {'r', 'R'}}

// Render draws the field, one character per cell, row 0 on top.
// '@' marks a cell holding more than one tank.
func (e *Engine) Render(colored bool) string {
	var sb strings.Builder
	sb.Grow((core.Width*12 + 8) * (core.Height + 3))

	sb.WriteString("turn ")
	sb.WriteString(strconv.Itoa(e.turn))
	sb.WriteString("\n   ")
	for x := 0; x < core.Width; x++ {
		sb.WriteString(strconv.Itoa(x))
	}
	sb.WriteByte('\n')

	for y := 0; y < core.Height; y++ {
		sb.WriteString(strconv.Itoa(y))
		sb.WriteString("  ")
		for x := 0; x < core.Width; x++ {
			symbol, color := cellSymbol(e.field[y][x], core.NewCoordinate(x, y))
			if colored && color != "" {
				sb.WriteString(color)
				sb.WriteByte(symbol)
				sb.WriteString(ColorReset)
			} else {
				sb.WriteByte(symbol)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (e *Engine) String() string { return e.Render(false) }

// Symbol returns the character Render draws for cell at
func Symbol(cell core.Cell, at core.Coordinate) byte {
	symbol, _ := cellSymbol(cell, at)
	return symbol
}

func cellSymbol(cell core.Cell, at core.Coordinate) (byte, string) {
	switch n := cell.Tanks.Count(); {
	case n > 1:
		return StackedSymbol, ColorYellow
	case n == 1:
		id := cell.Tanks.Tanks()[0]
		return tankSymbols[id.Side][id.Slot], sideColors[id.Side]
	}

	switch cell.Terrain {
	case core.TerrainBrick:
		return BrickSymbol, ColorYellow
	case core.TerrainSteel:
		return SteelSymbol, ColorGray
	case core.TerrainWater:
		return WaterSymbol, ColorCyan
	case core.TerrainBase:
		return BaseSymbol, sideColors[core.SideOfBase(at)]
	default:
		return EmptySymbol, ""
	}
}
