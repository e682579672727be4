package testutil

import (
	"testing"

	"github.com/mitchelldurbincs/tank2/internal/game"
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/stretchr/testify/require"
)

// Mask builds a field mask covering cells
func Mask(cells ...core.Coordinate) core.FieldMask {
	var m core.FieldMask
	for _, c := range cells {
		m = m.With(c)
	}
	return m
}

// Row builds a mask covering every cell of row y
func Row(y int) core.FieldMask {
	var m core.FieldMask
	for x := 0; x < core.Width; x++ {
		m = m.With(core.NewCoordinate(x, y))
	}
	return m
}

// NewTestEngine creates an engine seen from side 0 with the given terrain
func NewTestEngine(t *testing.T, brick, water, steel core.FieldMask) *game.Engine {
	t.Helper()
	e, err := game.CreateField(brick, water, steel, 0)
	require.NoError(t, err)
	return e
}

// NewEmptyEngine creates an engine on a field with no terrain
func NewEmptyEngine(t *testing.T) *game.Engine {
	t.Helper()
	return NewTestEngine(t, core.FieldMask{}, core.FieldMask{}, core.FieldMask{})
}
