package ai

import (
	"math"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/rules"
	"github.com/rs/zerolog"
)

const (
	DefaultStuckThreshold     = 10
	DefaultProximityThreshold = 3
)

// Settings tunes a Commander
type Settings struct {
	// StuckThreshold is the number of consecutive turns without moving after which
	// a brick blocking a shot at an enemy is routed around as virtual steel
	StuckThreshold int
	// ProximityThreshold is the distance at which the nearer enemy is always preferred
	ProximityThreshold int
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		StuckThreshold:     DefaultStuckThreshold,
		ProximityThreshold: DefaultProximityThreshold,
	}
}

func (s Settings) withDefaults() Settings {
	if s.StuckThreshold <= 0 {
		s.StuckThreshold = DefaultStuckThreshold
	}
	if s.ProximityThreshold <= 0 {
		s.ProximityThreshold = DefaultProximityThreshold
	}
	return s
}

// Commander chooses actions for both tanks of one side. The per-turn analysis
// (danger map, routes, aim and perception) is computed once per engine turn.
type Commander struct {
	view     FieldView
	side     int
	enemy    int
	settings Settings
	logger   zerolog.Logger
	legal    *rules.LegalActionCalculator

	analysedTurn int
	danger       DangerMap
	routes       [core.TanksPerSide]Path
	enemyRoutes  [core.TanksPerSide]Path
	priorAim     [core.TanksPerSide]int
	env          [core.TanksPerSide][core.TanksPerSide]Perception
	virtualSteel VirtualSteel
	modes        [core.TanksPerSide]*modeMachine
}

// NewCommander creates a commander for side reading state from view
func NewCommander(view FieldView, side int, settings Settings, logger zerolog.Logger) *Commander {
	logger = logger.With().Str("component", "Commander").Int("side", side).Logger()
	c := &Commander{
		view:         view,
		side:         side,
		enemy:        core.Opponent(side),
		settings:     settings.withDefaults(),
		logger:       logger,
		legal:        rules.NewLegalActionCalculator(),
		analysedTurn: -1,
	}
	for slot := range c.modes {
		c.modes[slot] = newModeMachine(logger.With().Int("slot", slot).Logger())
	}
	return c
}

// Side returns the side this commander plays
func (c *Commander) Side() int { return c.side }

// Mode returns the mode behind a tank's last decision
func (c *Commander) Mode(slot int) Mode { return c.modes[slot].Current() }

// ModeHistory returns the mode transitions of a tank
func (c *Commander) ModeHistory(slot int) []Transition { return c.modes[slot].History() }

// Danger returns the danger map of the current analysis
func (c *Commander) Danger() DangerMap {
	c.refresh()
	return c.danger
}

// Route returns the current route of a tank toward the enemy base
func (c *Commander) Route(slot int) Path {
	c.refresh()
	return c.routes[slot]
}

// Invalidate discards the cached analysis, e.g. after the engine was reverted
func (c *Commander) Invalidate() { c.analysedTurn = -1 }

// ChooseAction returns the action for one tank this turn. The result is always
// legal for the engine the commander reads from.
func (c *Commander) ChooseAction(slot int) core.Action {
	if !core.ValidSlot(slot) {
		return core.Stay
	}
	turn := c.view.Turn()
	mm := c.modes[slot]

	if !c.view.Tank(c.side, slot).Alive {
		mm.TransitionTo(ModeIdle, turn, "destroyed")
		return core.Stay
	}
	if !c.legal.HasNonStay(c.view, c.side, slot) {
		mm.TransitionTo(ModeIdle, turn, "no legal action")
		return core.Stay
	}

	c.refresh()
	action, mode, reason := c.decide(slot)
	if !c.view.ActionLegal(c.side, slot, action) {
		c.logger.Warn().
			Int("turn", turn).
			Int("slot", slot).
			Str("action", action.String()).
			Msg("Decided action is illegal, staying")
		action, mode, reason = core.Stay, ModeIdle, "illegal decision"
	}
	mm.TransitionTo(mode, turn, reason)

	c.logger.Debug().
		Int("turn", turn).
		Int("slot", slot).
		Str("mode", mode.String()).
		Str("action", action.String()).
		Msg("Action chosen")
	return action
}

// refresh recomputes the per-turn analysis when the engine turn has changed
func (c *Commander) refresh() {
	turn := c.view.Turn()
	if turn == c.analysedTurn {
		return
	}
	c.analysedTurn = turn

	c.virtualSteel.Refresh(c.view)
	c.danger = ComputeDangerMap(c.view, c.enemy)
	c.computeRoutes()
	c.computePriorAim()
	for slot := 0; slot < core.TanksPerSide; slot++ {
		for enemySlot := 0; enemySlot < core.TanksPerSide; enemySlot++ {
			c.env[slot][enemySlot] = Perceive(c.view, c.side, slot, enemySlot)
		}
	}
}

func (c *Commander) computeRoutes() {
	for slot := 0; slot < core.TanksPerSide; slot++ {
		c.routes[slot] = Path{}
		if tank := c.view.Tank(c.side, slot); tank.Alive {
			c.routes[slot] = c.findRoute(tank.Pos, 0)
		}

		c.enemyRoutes[slot] = Path{}
		if tank := c.view.Tank(c.enemy, slot); tank.Alive {
			c.enemyRoutes[slot] = FindPath(c.view, tank.Pos, core.BasePosition(c.side), PathOptions{
				Side:         c.enemy,
				VirtualSteel: &c.virtualSteel,
			})
		}
	}
}

// findRoute searches our route toward the enemy base with the first step kept safe
func (c *Commander) findRoute(from core.Coordinate, prohibited core.DirectionSet) Path {
	return FindPath(c.view, from, core.BasePosition(c.enemy), PathOptions{
		Side:          c.side,
		SafeFirstStep: true,
		Danger:        &c.danger,
		Prohibited:    prohibited,
		VirtualSteel:  &c.virtualSteel,
	})
}

// computePriorAim picks which enemy each tank should prefer: the nearer one when
// either is within the proximity threshold, otherwise the one we close in on fastest
// after both sides take their next route step.
func (c *Commander) computePriorAim() {
	for slot := 0; slot < core.TanksPerSide; slot++ {
		tank := c.view.Tank(c.side, slot)
		if !tank.Alive {
			continue
		}
		next := nextPosition(tank.Pos, c.routes[slot])

		dist := [core.TanksPerSide]int{math.MaxInt32, math.MaxInt32}
		delta := [core.TanksPerSide]int{math.MaxInt32, math.MaxInt32}
		for enemySlot := 0; enemySlot < core.TanksPerSide; enemySlot++ {
			enemy := c.view.Tank(c.enemy, enemySlot)
			if !enemy.Alive {
				continue
			}
			enemyNext := nextPosition(enemy.Pos, c.enemyRoutes[enemySlot])
			dist[enemySlot] = tank.Pos.DistanceTo(enemy.Pos)
			delta[enemySlot] = next.DistanceTo(enemyNext) - dist[enemySlot]
		}

		if dist[0] <= c.settings.ProximityThreshold || dist[1] <= c.settings.ProximityThreshold {
			c.priorAim[slot] = pick(dist[0] <= dist[1])
		} else {
			c.priorAim[slot] = pick(delta[0] <= delta[1])
		}
	}
}

func nextPosition(pos core.Coordinate, route Path) core.Coordinate {
	if route.Empty() {
		return pos
	}
	return route.First().Pos
}

func pick(first bool) int {
	if first {
		return 0
	}
	return 1
}

// decide runs the decision order: shoot the enemy base, shoot an enemy tank, explore
func (c *Commander) decide(slot int) (core.Action, Mode, string) {
	pos := c.view.Tank(c.side, slot).Pos
	cooldown := c.view.ShotLastTurn(c.side, slot)
	enemyBase := core.BasePosition(c.enemy)

	if !cooldown && ClearLine(c.view, pos, enemyBase) {
		return core.ShootAction(pos.DirectionTo(enemyBase)), ModeSiege, "enemy base in line"
	}

	if target, ok := c.chooseTarget(slot, pos); ok {
		if !cooldown {
			return c.env[slot][target].Shot, ModeAttack, "enemy tank in line"
		}
	}

	action, reason := c.explore(slot, pos, cooldown)
	return action, ModeExplore, reason
}

// chooseTarget picks the enemy to shoot among those with a clear shot. The enemy
// that alone threatens our cell comes first, then the prior aim.
func (c *Commander) chooseTarget(slot int, pos core.Coordinate) (int, bool) {
	env := c.env[slot]
	clear0 := env[0].Relation == RelationClearShot
	clear1 := env[1].Relation == RelationClearShot
	if !clear0 && !clear1 {
		return 0, false
	}

	var target int
	switch threat := c.danger.At(pos); {
	case threat.Only(0):
		target = 0
	case threat.Only(1):
		target = 1
	default:
		target = c.priorAim[slot]
	}
	if env[target].Relation != RelationClearShot {
		target = 1 - target
	}
	return target, true
}

// explore advances along the route to the enemy base
func (c *Commander) explore(slot int, pos core.Coordinate, cooldown bool) (core.Action, string) {
	var prohibited core.DirectionSet

	for enemySlot := 0; enemySlot < core.TanksPerSide; enemySlot++ {
		p := c.env[slot][enemySlot]
		if p.Relation != RelationBrickBlocked {
			continue
		}
		dir := p.Shot.Direction()
		prohibited = prohibited.With(dir)

		if c.view.StayCount(c.side, slot) >= c.settings.StuckThreshold {
			c.markBlockingBrick(pos, dir)
			continue
		}
		if c.routes[slot].First().Dir != dir {
			continue
		}
		next := pos.Move(dir)
		if c.view.Cell(next).IsEmpty() {
			if !c.danger.Dangerous(next) {
				return core.MoveAction(dir), "closing in behind a brick"
			}
		} else if !c.danger.Dangerous(pos) {
			return core.Stay, "holding behind a brick"
		}
	}

	route := c.findRoute(pos, prohibited)
	c.routes[slot] = route
	if route.Empty() {
		return core.Stay, "no route"
	}

	step := route.First()
	cell := c.view.Cell(step.Pos)
	switch {
	case cell.Terrain == core.TerrainBrick || cell.Terrain == core.TerrainBase:
		if cooldown {
			return core.Stay, "reloading"
		}
		return core.ShootAction(step.Dir), "clearing route"
	case cell.IsEmpty():
		if !cooldown && c.obstacleAhead(route) {
			return core.ShootAction(step.Dir), "clearing route ahead"
		}
		return core.MoveAction(step.Dir), "advancing"
	default:
		return core.Stay, "route blocked"
	}
}

// obstacleAhead follows the straight opening run of the route past its first step and
// reports whether it reaches a brick or the enemy base before anything else
func (c *Commander) obstacleAhead(route Path) bool {
	dir := route.First().Dir
	enemyBase := core.BasePosition(c.enemy)
	for _, step := range route.Steps[1:] {
		if step.Dir != dir {
			return false
		}
		cell := c.view.Cell(step.Pos)
		switch {
		case cell.IsEmpty():
			continue
		case cell.Terrain == core.TerrainBrick || step.Pos == enemyBase:
			return true
		default:
			return false
		}
	}
	return false
}

// markBlockingBrick flags the first brick from pos in direction dir as virtual steel
func (c *Commander) markBlockingBrick(pos core.Coordinate, dir core.Direction) {
	for cur := pos.Move(dir); cur.IsValid(); cur = cur.Move(dir) {
		if c.view.Cell(cur).Terrain == core.TerrainBrick {
			c.virtualSteel.Mark(cur)
			c.logger.Debug().
				Int("turn", c.view.Turn()).
				Str("at", cur.String()).
				Msg("Brick marked as virtual steel")
			return
		}
	}
}
