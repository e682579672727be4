package ai

import (
	"container/heap"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// Step is one move along a path: the cell entered and the direction taken to enter it
type Step struct {
	Pos core.Coordinate
	Dir core.Direction
}

// Path is an ordered list of steps. It is empty when no route exists.
type Path struct {
	Steps []Step
	Cost  int
}

func (p Path) Empty() bool { return len(p.Steps) == 0 }
func (p Path) Len() int    { return len(p.Steps) }

// First returns the next step, or a step with NoDirection for an empty path
func (p Path) First() Step {
	if p.Empty() {
		return Step{Pos: core.NoCoordinate, Dir: core.NoDirection}
	}
	return p.Steps[0]
}

// PathOptions tunes a search
type PathOptions struct {
	// Side is the searching side; its own base is impassable
	Side int
	// SafeFirstStep restricts the first expansion using Danger and Prohibited
	SafeFirstStep bool
	Danger        *DangerMap
	// Prohibited lists shot directions in which a brick should not be targeted
	Prohibited   core.DirectionSet
	VirtualSteel *VirtualSteel
}

// --- A* pathfinding ---

type pathNode struct {
	pos   core.Coordinate
	g, h  int
	seq   int
	index int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// FindPath searches a cheapest route from one cell to another over the 4-connected
// field. Entering a brick costs 2, anything else 1. Steel, water, virtual steel and
// the searcher's own base cannot be entered. Equal scores are expanded in insertion order.
func FindPath(view CellReader, from, to core.Coordinate, opts PathOptions) Path {
	if !from.IsValid() || !to.IsValid() || from == to {
		return Path{}
	}

	const unseen = -1
	var (
		best    [core.CellCount]int
		closed  [core.CellCount]bool
		entered [core.CellCount]core.Direction
	)
	for i := range best {
		best[i] = unseen
	}

	seq := 0
	start := &pathNode{pos: from, h: from.DistanceTo(to)}
	ol := &openList{start}
	heap.Init(ol)
	best[from.ToIndex()] = 0

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		k := cur.pos.ToIndex()
		if closed[k] {
			continue
		}
		if cur.pos == to {
			return buildPath(from, to, entered, cur.g)
		}
		closed[k] = true

		for _, d := range core.Directions {
			next := cur.pos.Move(d)
			if !next.IsValid() {
				continue
			}
			nk := next.ToIndex()
			if closed[nk] {
				continue
			}
			cell := view.Cell(next)
			if !passable(cell, next, opts) {
				continue
			}
			if cur.pos == from && opts.SafeFirstStep && !safeFirstStep(view, from, next, d, opts) {
				continue
			}
			g := cur.g + stepCost(cell, next, opts)
			if prev := best[nk]; prev != unseen && g >= prev {
				continue
			}
			best[nk] = g
			entered[nk] = d
			seq++
			heap.Push(ol, &pathNode{pos: next, g: g, h: next.DistanceTo(to), seq: seq})
		}
	}
	return Path{}
}

func isVirtualSteel(cell core.Cell, c core.Coordinate, opts PathOptions) bool {
	return cell.Terrain == core.TerrainBrick && opts.VirtualSteel != nil && opts.VirtualSteel.Has(c)
}

func passable(cell core.Cell, c core.Coordinate, opts PathOptions) bool {
	switch cell.Terrain {
	case core.TerrainSteel, core.TerrainWater:
		return false
	}
	if isVirtualSteel(cell, c, opts) {
		return false
	}
	return c != core.BasePosition(opts.Side)
}

func stepCost(cell core.Cell, c core.Coordinate, opts PathOptions) int {
	if cell.Terrain == core.TerrainBrick && !isVirtualSteel(cell, c, opts) {
		return 2
	}
	return 1
}

// safeFirstStep applies the extra exclusions on the first move of a tank's own route
func safeFirstStep(view CellReader, from, next core.Coordinate, d core.Direction, opts PathOptions) bool {
	cell := view.Cell(next)
	if !cell.Tanks.IsEmpty() {
		return false
	}
	switch cell.Terrain {
	case core.TerrainNone:
		return opts.Danger == nil || !opts.Danger.Dangerous(next)
	case core.TerrainBrick:
		if opts.Prohibited.Has(d) {
			return false
		}
		return opts.Danger == nil || !opts.Danger.Dangerous(from)
	case core.TerrainBase:
		return true
	default:
		return false
	}
}

func buildPath(from, to core.Coordinate, entered [core.CellCount]core.Direction, cost int) Path {
	var steps []Step
	for c := to; c != from; {
		d := entered[c.ToIndex()]
		steps = append(steps, Step{Pos: c, Dir: d})
		c = c.Move(d.Opposite())
	}
	// Reverse
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return Path{Steps: steps, Cost: cost}
}
