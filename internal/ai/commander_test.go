package ai

import (
	"testing"

	"github.com/mitchelldurbincs/tank2/internal/game"
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/mapgen"
	"github.com/mitchelldurbincs/tank2/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommander(view FieldView, side int) *Commander {
	return NewCommander(view, side, DefaultSettings(), zerolog.Nop())
}

func TestSettings_Defaults(t *testing.T) {
	s := Settings{}.withDefaults()
	assert.Equal(t, DefaultSettings(), s)

	custom := Settings{StuckThreshold: 4, ProximityThreshold: 1}.withDefaults()
	assert.Equal(t, 4, custom.StuckThreshold)
	assert.Equal(t, 1, custom.ProximityThreshold)
}

func TestCommander_ShootsEnemyBaseInLine(t *testing.T) {
	v := newFakeView().place(0, 0, at(4, 5))
	c := newTestCommander(v, 0)

	assert.Equal(t, core.ShootDown, c.ChooseAction(0))
	assert.Equal(t, ModeSiege, c.Mode(0))

	// reloading: advance instead
	v.shot[0][0] = true
	v.turn++
	assert.Equal(t, core.MoveDown, c.ChooseAction(0))
	assert.Equal(t, ModeExplore, c.Mode(0))

	history := c.ModeHistory(0)
	require.Len(t, history, 2)
	assert.Equal(t, ModeSiege, history[1].From)
	assert.Equal(t, 2, history[1].Turn)
}

func TestCommander_ShootsEnemyTank(t *testing.T) {
	v := newFakeView().place(0, 0, at(1, 3)).place(1, 0, at(1, 6))
	c := newTestCommander(v, 0)

	assert.Equal(t, core.ShootDown, c.ChooseAction(0))
	assert.Equal(t, ModeAttack, c.Mode(0))
}

func TestCommander_TargetSelection(t *testing.T) {
	t.Run("the only threat wins", func(t *testing.T) {
		v := newFakeView().place(0, 0, at(1, 3)).place(1, 0, at(1, 6)).place(1, 1, at(5, 3))
		v.shot[1][0] = true
		c := newTestCommander(v, 0)

		assert.Equal(t, ThreatTank1, c.Danger().At(at(1, 3)))
		assert.Equal(t, core.ShootRight, c.ChooseAction(0))
	})

	t.Run("nearer enemy when both threaten", func(t *testing.T) {
		v := newFakeView().place(0, 0, at(1, 3)).place(1, 0, at(1, 6)).place(1, 1, at(5, 3))
		c := newTestCommander(v, 0)

		assert.Equal(t, ThreatBoth, c.Danger().At(at(1, 3)))
		assert.Equal(t, core.ShootDown, c.ChooseAction(0))
	})

	t.Run("only enemies with a clear shot are targeted", func(t *testing.T) {
		v := newFakeView().place(0, 0, at(1, 3)).place(1, 0, at(1, 6)).place(1, 1, at(5, 3))
		v.set(at(1, 5), core.TerrainBrick)
		v.shot[1][1] = true
		c := newTestCommander(v, 0)

		// the nearer enemy is preferred but sits behind a brick
		assert.Equal(t, ThreatNone, c.Danger().At(at(1, 3)))
		assert.Equal(t, core.ShootRight, c.ChooseAction(0))
	})
}

func TestCommander_DestroyedTankStays(t *testing.T) {
	v := newFakeView().place(0, 1, at(6, 0))
	c := newTestCommander(v, 0)

	assert.Equal(t, core.Stay, c.ChooseAction(0))
	assert.Equal(t, ModeIdle, c.Mode(0))
	assert.Equal(t, core.Stay, c.ChooseAction(5), "unknown slot")
}

func TestCommander_BoxedInTankStays(t *testing.T) {
	v := newFakeView().place(0, 0, at(0, 0))
	v.set(at(1, 0), core.TerrainSteel).set(at(0, 1), core.TerrainSteel)
	v.shot[0][0] = true
	c := newTestCommander(v, 0)

	assert.Equal(t, core.Stay, c.ChooseAction(0))
	assert.Equal(t, ModeIdle, c.Mode(0))
}

func TestCommander_ExploreClearsBricks(t *testing.T) {
	newView := func(me core.Coordinate) *fakeView {
		v := newFakeView().place(0, 0, me)
		return v.set(at(4, 6), core.TerrainBrick).
			set(at(3, 6), core.TerrainSteel).
			set(at(5, 6), core.TerrainSteel)
	}

	t.Run("brick next", func(t *testing.T) {
		v := newView(at(4, 5))
		c := newTestCommander(v, 0)
		assert.Equal(t, core.ShootDown, c.ChooseAction(0))
		assert.Equal(t, ModeExplore, c.Mode(0))
		assert.Equal(t, at(4, 6), c.Route(0).First().Pos)

		v.shot[0][0] = true
		v.turn++
		assert.Equal(t, core.Stay, c.ChooseAction(0), "reloading")
	})

	t.Run("brick further down the straight run", func(t *testing.T) {
		v := newView(at(4, 3))
		c := newTestCommander(v, 0)
		assert.Equal(t, core.ShootDown, c.ChooseAction(0))

		v.shot[0][0] = true
		v.turn++
		assert.Equal(t, core.MoveDown, c.ChooseAction(0), "reloading tanks keep moving")
	})
}

func TestCommander_NoRouteStays(t *testing.T) {
	v := newFakeView().place(0, 0, at(2, 2))
	wall(v, 5, core.TerrainWater)
	c := newTestCommander(v, 0)

	assert.True(t, c.Route(0).Empty())
	assert.Equal(t, core.Stay, c.ChooseAction(0))
	assert.Equal(t, ModeExplore, c.Mode(0))
}

func TestCommander_StuckTankMarksVirtualSteel(t *testing.T) {
	v := newFakeView().place(0, 0, at(1, 3)).place(1, 0, at(1, 6))
	v.set(at(1, 5), core.TerrainBrick)
	v.stays[0][0] = DefaultStuckThreshold
	c := newTestCommander(v, 0)

	c.ChooseAction(0)
	assert.True(t, c.virtualSteel.Has(at(1, 5)))

	v.set(at(1, 5), core.TerrainNone)
	c.Invalidate()
	c.Danger()
	assert.False(t, c.virtualSteel.Has(at(1, 5)), "cleared once the brick is gone")
}

func TestCommander_BrickBlockedEnemy(t *testing.T) {
	// our route runs down column 4 toward an enemy hidden behind one brick
	newView := func(enemy, brick core.Coordinate) *fakeView {
		v := newFakeView().place(0, 0, at(4, 3)).place(1, 0, enemy)
		return v.set(brick, core.TerrainBrick).
			set(at(3, 3), core.TerrainSteel).set(at(5, 3), core.TerrainSteel).
			set(at(3, 4), core.TerrainSteel).set(at(5, 4), core.TerrainSteel)
	}

	t.Run("closes in while the cell ahead is safe", func(t *testing.T) {
		c := newTestCommander(newView(at(4, 6), at(4, 5)), 0)
		require.Equal(t, core.Down, c.Route(0).First().Dir)
		assert.Equal(t, core.MoveDown, c.ChooseAction(0))
	})

	t.Run("holds instead of opening the brick", func(t *testing.T) {
		c := newTestCommander(newView(at(4, 5), at(4, 4)), 0)
		require.Equal(t, core.Down, c.Route(0).First().Dir)
		assert.Equal(t, core.Stay, c.ChooseAction(0))
		assert.Equal(t, ModeExplore, c.Mode(0))
	})
}

// Commanders on a generated map must only ever submit legal actions.
func TestCommander_SelfPlayIsAlwaysLegal(t *testing.T) {
	rng := testutil.NewTestRNG(12345)
	generator := mapgen.NewGenerator(mapgen.DefaultMapConfig(), rng)

	for match := 0; match < 10; match++ {
		masks := generator.Generate()
		e, err := game.CreateField(masks.Brick, masks.Water, masks.Steel, 0)
		require.NoError(t, err)
		commanders := [core.SideCount]*Commander{newTestCommander(e, 0), newTestCommander(e, 1)}

		for e.GetResult() == core.ResultOngoing {
			for _, id := range core.AllTanks {
				e.SetNextAction(id.Side, id.Slot, commanders[id.Side].ChooseAction(id.Slot))
			}
			require.True(t, e.ApplyTurn(), "match %d, turn %d", match, e.Turn())
		}
		assert.LessOrEqual(t, e.Turn(), e.MaxTurns()+1)
	}
}

func TestCommander_DestroysEnemyBaseOnOpenField(t *testing.T) {
	e := testutil.NewEmptyEngine(t)

	// both enemy tanks stand in our tanks' columns
	e.SetNextAction(0, 0, core.ShootDown)
	e.SetNextAction(0, 1, core.ShootDown)
	e.SetNextAction(1, 0, core.Stay)
	e.SetNextAction(1, 1, core.Stay)
	require.True(t, e.ApplyTurn())
	require.False(t, e.Tank(1, 0).Alive)
	require.False(t, e.Tank(1, 1).Alive)

	c := newTestCommander(e, 0)
	for turn := 0; turn < 40 && e.Base(1).Alive; turn++ {
		for slot := 0; slot < core.TanksPerSide; slot++ {
			e.SetNextAction(0, slot, c.ChooseAction(slot))
			e.SetNextAction(1, slot, core.Stay)
		}
		require.True(t, e.ApplyTurn())
	}
	assert.False(t, e.Base(1).Alive, "enemy base still standing at turn %d", e.Turn())
}
