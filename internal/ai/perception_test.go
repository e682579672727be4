package ai

import (
	"testing"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/stretchr/testify/assert"
)

func TestPerceive(t *testing.T) {
	type cell struct {
		at      core.Coordinate
		terrain core.Terrain
	}

	tests := []struct {
		name     string
		me       core.Coordinate
		enemy    core.Coordinate
		terrain  []cell
		mate     core.Coordinate
		expected Perception
	}{
		{"overlap", at(4, 4), at(4, 4), nil, core.NoCoordinate, Perception{RelationOverlap, core.Stay}},
		{"clear below", at(4, 4), at(4, 7), nil, core.NoCoordinate, Perception{RelationClearShot, core.ShootDown}},
		{"clear left", at(4, 4), at(1, 4), nil, core.NoCoordinate, Perception{RelationClearShot, core.ShootLeft}},
		{"adjacent above", at(4, 4), at(4, 3), nil, core.NoCoordinate, Perception{RelationClearShot, core.ShootUp}},
		{"over water", at(4, 4), at(7, 4), []cell{{at(5, 4), core.TerrainWater}}, core.NoCoordinate, Perception{RelationClearShot, core.ShootRight}},
		{"one brick", at(4, 4), at(4, 7), []cell{{at(4, 5), core.TerrainBrick}}, core.NoCoordinate, Perception{RelationBrickBlocked, core.ShootDown}},
		{"two bricks", at(4, 4), at(4, 7), []cell{{at(4, 5), core.TerrainBrick}, {at(4, 6), core.TerrainBrick}}, core.NoCoordinate, farAway},
		{"steel", at(4, 4), at(4, 7), []cell{{at(4, 6), core.TerrainSteel}}, core.NoCoordinate, farAway},
		{"teammate in the way", at(4, 4), at(4, 7), nil, at(4, 5), farAway},
		{"own base in the way", at(2, 0), at(6, 0), nil, core.NoCoordinate, farAway},
		{"diagonal", at(4, 4), at(5, 5), nil, core.NoCoordinate, Perception{RelationDiagonal, core.Stay}},
		{"neighbouring column", at(4, 4), at(5, 7), nil, core.NoCoordinate, Perception{RelationOffsetColumn, core.Stay}},
		{"neighbouring row", at(4, 4), at(1, 3), nil, core.NoCoordinate, Perception{RelationOffsetRow, core.Stay}},
		{"far", at(4, 4), at(7, 7), nil, core.NoCoordinate, farAway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newFakeView().place(0, 0, tt.me).place(1, 1, tt.enemy)
			for _, c := range tt.terrain {
				v.set(c.at, c.terrain)
			}
			if tt.mate.IsValid() {
				v.place(0, 1, tt.mate)
			}
			assert.Equal(t, tt.expected, Perceive(v, 0, 0, 1))
		})
	}
}

func TestPerceive_DestroyedTanksAreFar(t *testing.T) {
	v := newFakeView().place(0, 0, at(0, 1))
	// enemy slot 0 is destroyed and sits on the sentinel position
	assert.Equal(t, farAway, Perceive(v, 0, 0, 0))
	assert.Equal(t, farAway, Perceive(v, 1, 0, 0), "a destroyed observer sees nothing")
}

func TestRelation_String(t *testing.T) {
	assert.Equal(t, "clear-shot", RelationClearShot.String())
	assert.Equal(t, "far", RelationFar.String())
	assert.Equal(t, "unknown", Relation(42).String())
}

func TestClearLine(t *testing.T) {
	v := newFakeView().place(0, 0, at(4, 2))
	v.set(at(4, 5), core.TerrainWater)

	assert.True(t, ClearLine(v, at(4, 2), core.BasePosition(1)), "water does not block")
	assert.False(t, ClearLine(v, at(4, 2), at(4, 2)))
	assert.False(t, ClearLine(v, at(3, 2), at(4, 8)), "not aligned")

	v.place(1, 0, at(4, 6))
	assert.False(t, ClearLine(v, at(4, 2), core.BasePosition(1)), "tanks block")
	assert.True(t, ClearLine(v, at(4, 2), at(4, 3)), "neighbours have nothing in between")
}
