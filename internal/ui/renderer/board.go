package renderer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mitchelldurbincs/tank2/internal/ai"
	"github.com/mitchelldurbincs/tank2/internal/game"
	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// -----------------------------------------------------------------------------
// Colour definitions
// -----------------------------------------------------------------------------

var SideStyles = [core.SideCount]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true),  // Blue
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
}

var (
	EmptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	BrickStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	SteelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	WaterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	StackedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	DangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	HeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// DangerSymbol marks an empty cell inside an enemy fire lane
const DangerSymbol = '+'

// -----------------------------------------------------------------------------
// Renderer
// -----------------------------------------------------------------------------

// CellSource is the read surface the renderer draws from. *game.Engine implements it.
type CellSource interface {
	Cell(c core.Coordinate) core.Cell
}

type BoardRenderer struct {
	border lipgloss.Style
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer() *BoardRenderer {
	return &BoardRenderer{
		border: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}

// Draw renders the field inside a border. When danger is non-nil its lanes are
// overlaid on empty cells.
func (br *BoardRenderer) Draw(source CellSource, danger *ai.DangerMap) string {
	rows := make([]string, 0, core.Height+1)

	var header strings.Builder
	header.WriteString("  ")
	for x := 0; x < core.Width; x++ {
		header.WriteString(strconv.Itoa(x))
	}
	rows = append(rows, HeaderStyle.Render(header.String()))

	for y := 0; y < core.Height; y++ {
		var b strings.Builder
		b.WriteString(HeaderStyle.Render(strconv.Itoa(y) + " "))
		for x := 0; x < core.Width; x++ {
			at := core.NewCoordinate(x, y)
			b.WriteString(br.cell(source.Cell(at), at, danger))
		}
		rows = append(rows, b.String())
	}

	return br.border.Render(strings.Join(rows, "\n"))
}

func (br *BoardRenderer) cell(cell core.Cell, at core.Coordinate, danger *ai.DangerMap) string {
	if cell.IsEmpty() && danger != nil && danger.Dangerous(at) {
		return DangerStyle.Render(string(DangerSymbol))
	}
	symbol := string(game.Symbol(cell, at))
	return StyleFor(cell, at).Render(symbol)
}

// StyleFor picks the style of a cell by its most prominent item
func StyleFor(cell core.Cell, at core.Coordinate) lipgloss.Style {
	switch n := cell.Tanks.Count(); {
	case n > 1:
		return StackedStyle
	case n == 1:
		return SideStyles[cell.Tanks.Tanks()[0].Side]
	}

	switch cell.Terrain {
	case core.TerrainBrick:
		return BrickStyle
	case core.TerrainSteel:
		return SteelStyle
	case core.TerrainWater:
		return WaterStyle
	case core.TerrainBase:
		return SideStyles[core.SideOfBase(at)]
	default:
		return EmptyStyle
	}
}
