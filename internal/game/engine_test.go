package game

import (
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/mitchelldurbincs/tank2/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type actionGrid = [core.SideCount][core.TanksPerSide]core.Action

func allStay() actionGrid {
	return actionGrid{{core.Stay, core.Stay}, {core.Stay, core.Stay}}
}

func newTestEngine(t *testing.T, brick, water, steel core.FieldMask) *Engine {
	t.Helper()
	e, err := CreateField(brick, water, steel, 0)
	require.NoError(t, err)
	return e
}

func newEmptyEngine(t *testing.T) *Engine {
	return newTestEngine(t, core.FieldMask{}, core.FieldMask{}, core.FieldMask{})
}

func mask(cells ...core.Coordinate) core.FieldMask {
	var m core.FieldMask
	for _, c := range cells {
		m = m.With(c)
	}
	return m
}

func play(t *testing.T, e *Engine, actions actionGrid) {
	t.Helper()
	for side := range actions {
		for slot, a := range actions[side] {
			e.SetNextAction(side, slot, a)
		}
	}
	require.True(t, e.ApplyTurn(), "turn %d should apply", e.Turn())
}

func TestCreateField_InitialLayout(t *testing.T) {
	// bricks under the tank and base cells are overwritten
	brick := mask(core.NewCoordinate(2, 0), core.NewCoordinate(4, 8), core.NewCoordinate(3, 3))
	e := newTestEngine(t, brick, core.FieldMask{}, core.FieldMask{})

	assert.Equal(t, 1, e.Turn())
	assert.Equal(t, 0, e.MySide())
	assert.Equal(t, rules.DefaultMaxTurns, e.MaxTurns())
	assert.NotEmpty(t, e.GameID())

	for _, id := range core.AllTanks {
		tank := e.Tank(id.Side, id.Slot)
		assert.True(t, tank.Alive)
		assert.Equal(t, core.TankStart(id.Side, id.Slot), tank.Pos)
		cell := e.Cell(tank.Pos)
		assert.Equal(t, core.TerrainNone, cell.Terrain)
		assert.True(t, cell.Tanks.Has(id))
		assert.Equal(t, core.Stay, e.PreviousAction(id.Side, id.Slot))
	}
	for side := 0; side < core.SideCount; side++ {
		assert.True(t, e.Base(side).Alive)
		assert.Equal(t, core.TerrainBase, e.Cell(core.BasePosition(side)).Terrain)
	}
	assert.Equal(t, core.TerrainBrick, e.Cell(core.NewCoordinate(3, 3)).Terrain)
	assert.Equal(t, core.Cell{}, e.Cell(core.NewCoordinate(-1, 3)))
	assert.Equal(t, core.ResultOngoing, e.GetResult())
}

func TestCreateField_InvalidSide(t *testing.T) {
	_, err := CreateField(core.FieldMask{}, core.FieldMask{}, core.FieldMask{}, 2)
	assert.ErrorIs(t, err, core.ErrInvalidTank)
}

func TestEngine_ActionLegal(t *testing.T) {
	brick := mask(core.NewCoordinate(2, 1))
	water := mask(core.NewCoordinate(6, 1))
	e := newTestEngine(t, brick, water, core.FieldMask{})

	assert.False(t, e.ActionLegal(0, 0, core.Invalid))
	assert.True(t, e.ActionLegal(0, 0, core.Stay))
	assert.True(t, e.ActionLegal(0, 0, core.ShootDown))

	assert.ErrorIs(t, e.ValidateAction(0, 0, core.MoveUp), core.ErrOutOfBounds)
	assert.ErrorIs(t, e.ValidateAction(0, 0, core.MoveDown), core.ErrCellBlocked, "brick blocks movement")
	assert.ErrorIs(t, e.ValidateAction(0, 1, core.MoveDown), core.ErrCellBlocked, "water blocks movement")
	assert.ErrorIs(t, e.ValidateAction(0, 0, core.Invalid), core.ErrNoAction)
	assert.True(t, e.ActionLegal(0, 0, core.MoveLeft))
	assert.True(t, e.ActionLegal(0, 0, core.MoveRight))
	assert.True(t, e.ActionLegal(0, 1, core.MoveLeft))
	assert.ErrorIs(t, e.ValidateAction(2, 0, core.Stay), core.ErrInvalidTank)
}

func TestEngine_ShootCooldown(t *testing.T) {
	e := newEmptyEngine(t)

	turn := allStay()
	turn[0][0] = core.ShootLeft
	play(t, e, turn)

	assert.True(t, e.ShotLastTurn(0, 0))
	var actionErr *core.ActionError
	err := e.ValidateAction(0, 0, core.ShootUp)
	require.ErrorAs(t, err, &actionErr)
	assert.ErrorIs(t, err, core.ErrShootCooldown)
	assert.Equal(t, 2, actionErr.Turn)
	assert.True(t, e.ActionLegal(0, 0, core.MoveDown), "moving is allowed during cooldown")

	play(t, e, allStay())
	assert.True(t, e.ActionLegal(0, 0, core.ShootUp), "shooting is allowed again two turns later")
}

func TestEngine_ApplyTurnIsAllOrNothing(t *testing.T) {
	e := newEmptyEngine(t)
	bus := events.NewEventBus()
	e.bus = bus
	var rejected []events.Event
	bus.SubscribeFunc(events.TypeActionRejected, func(ev events.Event) { rejected = append(rejected, ev) })

	before := e.Snapshot()
	turn := allStay()
	turn[0][0] = core.ShootDown
	turn[1][1] = core.MoveDown // off the field
	for side := range turn {
		for slot, a := range turn[side] {
			e.SetNextAction(side, slot, a)
		}
	}

	assert.False(t, e.ActionsLegal())
	assert.False(t, e.ApplyTurn())
	assert.Equal(t, before, e.Snapshot())
	require.Len(t, rejected, 1)
	ev := rejected[0].(*events.ActionRejectedEvent)
	assert.Equal(t, core.TankID{Side: 1, Slot: 1}, ev.Tank)

	// a missing action is illegal too
	e.resetPending()
	assert.False(t, e.ApplyTurn())
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_ShotsDestroyTanks(t *testing.T) {
	e := newEmptyEngine(t)

	turn := allStay()
	turn[0][0] = core.ShootDown
	turn[0][1] = core.ShootDown
	play(t, e, turn)

	for slot := 0; slot < core.TanksPerSide; slot++ {
		tank := e.Tank(1, slot)
		assert.False(t, tank.Alive)
		assert.Equal(t, core.NoCoordinate, tank.Pos)
		assert.True(t, e.Cell(core.TankStart(1, slot)).IsEmpty())
	}
	assert.Equal(t, core.WinnerResult(0), e.GetResult())

	// dead tanks are not asked for a legal action
	turn = allStay()
	turn[1][0] = core.Invalid
	turn[1][1] = core.Invalid
	play(t, e, turn)
}

func TestEngine_OpposingShotsCancel(t *testing.T) {
	e := newEmptyEngine(t)
	var cancelled int
	bus := events.NewEventBus()
	bus.SubscribeFunc(events.TypeShotsCancelled, func(events.Event) { cancelled++ })
	e.bus = bus

	turn := allStay()
	turn[0][0] = core.ShootDown // (2,0) facing (2,8)
	turn[1][1] = core.ShootUp
	play(t, e, turn)

	assert.True(t, e.Tank(0, 0).Alive)
	assert.True(t, e.Tank(1, 1).Alive)
	assert.Equal(t, 2, cancelled, "each shooter reports its own cancelled shot")
}

func TestEngine_ShotsNotOpposedStillHit(t *testing.T) {
	e := newEmptyEngine(t)

	turn := allStay()
	turn[0][0] = core.ShootDown
	turn[1][1] = core.ShootRight // (2,8) -> (3,8) -> side 1's own base
	play(t, e, turn)

	assert.False(t, e.Tank(1, 1).Alive)
	assert.True(t, e.Tank(0, 0).Alive)
	assert.False(t, e.Base(1).Alive, "shots resolve simultaneously so the dying tank still fires")
	assert.Equal(t, core.WinnerResult(0), e.GetResult())
}

func TestEngine_TerrainAgainstShots(t *testing.T) {
	brick := mask(core.NewCoordinate(2, 4))
	water := mask(core.NewCoordinate(2, 2), core.NewCoordinate(6, 2))
	steel := mask(core.NewCoordinate(6, 4))
	e := newTestEngine(t, brick, water, steel)

	var destroyed []*events.ItemDestroyedEvent
	bus := events.NewEventBus()
	bus.SubscribeFunc(events.TypeItemDestroyed, func(ev events.Event) {
		destroyed = append(destroyed, ev.(*events.ItemDestroyedEvent))
	})
	e.bus = bus

	turn := allStay()
	turn[0][0] = core.ShootDown // over water, into the brick
	turn[0][1] = core.ShootDown // over water, into the steel
	turn[1][1] = core.ShootUp   // into the same brick from below
	play(t, e, turn)

	assert.Equal(t, core.TerrainNone, e.Cell(core.NewCoordinate(2, 4)).Terrain)
	assert.Equal(t, core.TerrainSteel, e.Cell(core.NewCoordinate(6, 4)).Terrain)
	assert.Equal(t, core.TerrainWater, e.Cell(core.NewCoordinate(2, 2)).Terrain)
	for _, id := range core.AllTanks {
		assert.True(t, e.Tank(id.Side, id.Slot).Alive, id.String())
	}
	require.Len(t, destroyed, 1, "a brick hit twice is destroyed once")
	assert.Equal(t, core.NewCoordinate(2, 4), destroyed[0].Location)
}

func TestEngine_StackingAndRender(t *testing.T) {
	e := newEmptyEngine(t)

	play(t, e, actionGrid{{core.MoveDown, core.MoveDown}, {core.Stay, core.Stay}})
	play(t, e, actionGrid{{core.MoveRight, core.MoveLeft}, {core.Stay, core.Stay}})
	// both tanks step into (4,1) on the same turn
	play(t, e, actionGrid{{core.MoveRight, core.MoveLeft}, {core.Stay, core.Stay}})

	stacked := core.NewCoordinate(4, 1)
	assert.Equal(t, 2, e.Cell(stacked).Tanks.Count())
	assert.Equal(t, stacked, e.Tank(0, 0).Pos)
	assert.Equal(t, stacked, e.Tank(0, 1).Pos)
	assert.Equal(t, 0, e.StayCount(0, 0))
	assert.Equal(t, 3, e.StayCount(1, 0))

	board := e.String()
	assert.Contains(t, board, "turn 4")
	assert.Contains(t, board, "...@....")
	assert.Contains(t, board, "...*....")
	assert.Contains(t, board, "..R.*.r..")

	require.True(t, e.RevertTurn())
	assert.Equal(t, core.NewCoordinate(3, 1), e.Tank(0, 0).Pos)
	assert.Equal(t, core.NewCoordinate(5, 1), e.Tank(0, 1).Pos)
	assert.Equal(t, 2, e.StayCount(1, 0))
}

func TestEngine_RevertTurn(t *testing.T) {
	brick := mask(core.NewCoordinate(6, 4))
	e := newTestEngine(t, brick, core.FieldMask{}, core.FieldMask{})

	assert.False(t, e.RevertTurn(), "nothing to revert at turn 1")
	assert.Equal(t, 1, e.Turn())

	s1 := e.Snapshot()
	play(t, e, actionGrid{{core.ShootDown, core.ShootDown}, {core.Stay, core.MoveUp}})
	s2 := e.Snapshot()
	play(t, e, actionGrid{{core.MoveDown, core.MoveDown}, {core.ShootUp, core.ShootDown}})

	require.True(t, e.RevertTurn())
	assert.Equal(t, s2, e.Snapshot())
	assert.Equal(t, core.ShootDown, e.PreviousAction(0, 0))
	assert.Equal(t, core.Invalid, e.NextAction(0, 0))

	require.True(t, e.RevertTurn())
	assert.Equal(t, s1, e.Snapshot())
	assert.Equal(t, core.Stay, e.PreviousAction(0, 0))
	assert.Equal(t, core.ResultOngoing, e.GetResult())
	assert.False(t, e.RevertTurn())
}

func TestEngine_Results(t *testing.T) {
	t.Run("both bases fall", func(t *testing.T) {
		e := newEmptyEngine(t)
		turn := allStay()
		turn[0][0] = core.ShootRight // (2,0) -> own base (4,0)
		turn[1][1] = core.ShootRight // (2,8) -> own base (4,8)
		play(t, e, turn)
		assert.Equal(t, core.ResultDraw, e.GetResult())
	})

	t.Run("one tank lost keeps the game going", func(t *testing.T) {
		e := newEmptyEngine(t)
		turn := allStay()
		turn[0][1] = core.ShootDown
		play(t, e, turn)
		assert.False(t, e.Tank(1, 0).Alive)
		assert.Equal(t, core.ResultOngoing, e.GetResult())
	})

	t.Run("turn limit", func(t *testing.T) {
		e, err := NewEngine(GameConfig{MySide: 1, MaxTurns: 2, GameID: "limit"})
		require.NoError(t, err)
		assert.Equal(t, "limit", e.GameID())
		play(t, e, allStay())
		assert.Equal(t, core.ResultOngoing, e.GetResult())
		play(t, e, allStay())
		assert.Equal(t, 3, e.Turn())
		assert.Equal(t, core.ResultDraw, e.GetResult())
	})
}

func TestEngine_GameEndedPublishedOnce(t *testing.T) {
	bus := events.NewEventBus()
	var ended []*events.GameEndedEvent
	bus.SubscribeFunc(events.TypeGameEnded, func(ev events.Event) {
		ended = append(ended, ev.(*events.GameEndedEvent))
	})
	e, err := NewEngine(GameConfig{EventBus: bus})
	require.NoError(t, err)

	play(t, e, actionGrid{{core.ShootDown, core.ShootDown}, {core.Stay, core.Stay}})
	play(t, e, actionGrid{{core.Stay, core.Stay}, {core.Invalid, core.Invalid}})
	require.Len(t, ended, 1)
	assert.Equal(t, core.WinnerResult(0), ended[0].Result)

	require.True(t, e.RevertTurn())
	require.True(t, e.RevertTurn())
	play(t, e, actionGrid{{core.ShootDown, core.ShootDown}, {core.Stay, core.Stay}})
	assert.Len(t, ended, 2, "reverting past the end re-arms the notification")
}

// Random legal playouts must revert to every intermediate state exactly.
func TestEngine_RevertRestoresRandomPlayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	lac := rules.NewLegalActionCalculator()

	for game := 0; game < 20; game++ {
		var brick, water, steel core.FieldMask
		for i := 0; i < core.CellCount; i++ {
			c := core.FromIndex(i)
			switch rng.Intn(6) {
			case 0, 1:
				brick = brick.With(c)
			case 2:
				water = water.With(c)
			case 3:
				steel = steel.With(c)
			}
		}
		e := newTestEngine(t, brick, water, steel)

		snapshots := []Snapshot{e.Snapshot()}
		for e.GetResult() == core.ResultOngoing {
			for _, id := range core.AllTanks {
				legal := lac.Legal(e, id.Side, id.Slot)
				e.SetNextAction(id.Side, id.Slot, legal[rng.Intn(len(legal))])
			}
			require.True(t, e.ApplyTurn())
			snapshots = append(snapshots, e.Snapshot())
		}

		for i := len(snapshots) - 2; i >= 0; i-- {
			require.True(t, e.RevertTurn())
			require.Equal(t, snapshots[i], e.Snapshot(), "game %d, turn %d", game, i+1)
		}
		require.False(t, e.RevertTurn())
	}
}
