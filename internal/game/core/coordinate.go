package core

import "fmt"

// Coordinate represents a position on the field
type Coordinate struct {
	X, Y int
}

// NoCoordinate is the position reported for a destroyed tank
var NoCoordinate = Coordinate{X: -1, Y: -1}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a field index using row-major ordering
func FromIndex(idx int) Coordinate {
	return Coordinate{
		X: idx % Width,
		Y: idx / Width,
	}
}

// IsValid checks if the coordinate lies on the field
func (c Coordinate) IsValid() bool {
	return c.X >= 0 && c.X < Width && c.Y >= 0 && c.Y < Height
}

// ToIndex converts the coordinate to a field index using row-major ordering
func (c Coordinate) ToIndex() int {
	return c.Y*Width + c.X
}

// DistanceTo calculates the Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// IsAdjacentTo checks if this coordinate is orthogonally adjacent to another
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return c.DistanceTo(other) == 1
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Move returns a new coordinate moved one step in the given direction
func (c Coordinate) Move(d Direction) Coordinate {
	if !d.IsValid() {
		return c
	}
	return c.Add(d.Offset())
}

// DirectionTo returns the direction from this coordinate towards another one on the
// same row or column. NoDirection is returned for coincident or unaligned coordinates.
func (c Coordinate) DirectionTo(other Coordinate) Direction {
	switch {
	case c == other:
		return NoDirection
	case c.X == other.X && other.Y < c.Y:
		return Up
	case c.X == other.X:
		return Down
	case c.Y == other.Y && other.X > c.X:
		return Right
	case c.Y == other.Y:
		return Left
	default:
		return NoDirection
	}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four axis directions. The numbering matches the
// move and shoot action codes.
type Direction int

const (
	NoDirection Direction = -1
	Up          Direction = 0
	Right       Direction = 1
	Down        Direction = 2
	Left        Direction = 3
)

// Directions lists the four directions in scan order
var Directions = [4]Direction{Up, Right, Down, Left}

var directionOffsets = [4]Coordinate{
	Up:    {X: 0, Y: -1},
	Right: {X: 1, Y: 0},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
}

func (d Direction) IsValid() bool { return d >= Up && d <= Left }

// Offset returns the unit step of the direction
func (d Direction) Offset() Coordinate {
	if !d.IsValid() {
		return Coordinate{}
	}
	return directionOffsets[d]
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	if !d.IsValid() {
		return NoDirection
	}
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// DirectionSet is a small set of directions
type DirectionSet uint8

func (s DirectionSet) With(d Direction) DirectionSet {
	if !d.IsValid() {
		return s
	}
	return s | 1<<uint(d)
}

func (s DirectionSet) Has(d Direction) bool {
	return d.IsValid() && s&(1<<uint(d)) != 0
}
