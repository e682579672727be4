// Package ui is a terminal viewer that replays commander-versus-commander matches
// turn by turn, with stepping back through the engine's undo log.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mitchelldurbincs/tank2/internal/ai"
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/selfplay"
	"github.com/mitchelldurbincs/tank2/internal/ui/renderer"
)

const (
	minTick = 20 * time.Millisecond
	maxTick = 2 * time.Second
)

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var (
	sidebarStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Width(36).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Viewer is the bubbletea model driving one match
type Viewer struct {
	match         *selfplay.Match
	boardRenderer *renderer.BoardRenderer
	tickDur       time.Duration
	paused        bool
	dangerSide    int // side whose enemy lanes are shown, -1 for none
	status        string
	err           error
}

// NewViewer creates a viewer that auto-plays match every tick
func NewViewer(match *selfplay.Match, tick time.Duration) Viewer {
	if tick < minTick {
		tick = minTick
	}
	return Viewer{
		match:         match,
		boardRenderer: renderer.NewBoardRenderer(),
		tickDur:       tick,
		dangerSide:    -1,
	}
}

func (v Viewer) Init() tea.Cmd {
	return tickCmd(v.tickDur)
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !v.paused && !v.over() {
			v = v.step()
		}
		return v, tickCmd(v.tickDur)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case " ", "space", "p":
			v.paused = !v.paused
		case "n", "right":
			v.paused = true
			if !v.over() {
				v = v.step()
			}
		case "b", "left":
			v.paused = true
			v = v.back()
		case "d":
			v.dangerSide++
			if v.dangerSide >= core.SideCount {
				v.dangerSide = -1
			}
		case "+":
			if v.tickDur > minTick {
				v.tickDur = time.Duration(float64(v.tickDur) * 0.8)
			}
		case "-":
			if v.tickDur < maxTick {
				v.tickDur = time.Duration(float64(v.tickDur) * 1.25)
			}
		}
	}
	return v, nil
}

func (v Viewer) over() bool {
	return v.err != nil || v.match.Engine.GetResult().IsOver()
}

func (v Viewer) step() Viewer {
	turn := v.match.Engine.Turn()
	if err := v.match.Step(); err != nil {
		v.err = err
		v.paused = true
		return v
	}
	v.status = fmt.Sprintf("played turn %d", turn)
	return v
}

func (v Viewer) back() Viewer {
	if !v.match.Engine.RevertTurn() {
		v.status = "already at the first turn"
		return v
	}
	for _, c := range v.match.Commanders {
		c.Invalidate()
	}
	v.err = nil
	v.status = fmt.Sprintf("reverted to turn %d", v.match.Engine.Turn())
	return v
}

func (v Viewer) View() string {
	engine := v.match.Engine

	var danger *ai.DangerMap
	if v.dangerSide >= 0 {
		d := ai.ComputeDangerMap(engine, core.Opponent(v.dangerSide))
		danger = &d
	}
	board := v.boardRenderer.Draw(engine, danger)

	info := []string{
		titleStyle.Render(fmt.Sprintf("Turn %d / %d", engine.Turn(), engine.MaxTurns())),
		fmt.Sprintf("Result: %s", engine.GetResult()),
		"",
	}
	for _, id := range core.AllTanks {
		tank := engine.Tank(id.Side, id.Slot)
		state := v.match.Commanders[id.Side].Mode(id.Slot).String()
		if !tank.Alive {
			state = "destroyed"
		}
		line := fmt.Sprintf("%s %-9s %s", id, state, engine.PreviousAction(id.Side, id.Slot))
		info = append(info, renderer.SideStyles[id.Side].Render(line))
	}
	info = append(info, "")
	if v.dangerSide >= 0 {
		info = append(info, fmt.Sprintf("danger: lanes threatening side %d", v.dangerSide))
	}
	if v.status != "" {
		info = append(info, v.status)
	}
	if v.err != nil {
		info = append(info, errorStyle.Render(v.err.Error()))
	}
	sidebar := sidebarStyle.Render(strings.Join(info, "\n"))

	ui := lipgloss.JoinHorizontal(lipgloss.Top, board, sidebar)

	footer := fmt.Sprintf("tick %s | (space) pause, n/b step, d danger, +/- speed, q quit", v.tickDur.Round(time.Millisecond))
	if v.paused {
		footer = "PAUSED | " + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, ui, footer)
}
