package core

import "fmt"

// Action is one tank's order for a turn
type Action int

const (
	Invalid Action = iota - 2
	Stay
	MoveUp
	MoveRight
	MoveDown
	MoveLeft
	ShootUp
	ShootRight
	ShootDown
	ShootLeft
)

// ActionCount is the size of the action enumeration, Invalid included
const ActionCount = int(ShootLeft-Invalid) + 1

// AllActions lists the enumeration in ascending order
var AllActions = [ActionCount]Action{
	Invalid, Stay,
	MoveUp, MoveRight, MoveDown, MoveLeft,
	ShootUp, ShootRight, ShootDown, ShootLeft,
}

// ParseAction converts a wire integer into an Action. Unknown values map to Invalid.
func ParseAction(v int) Action {
	a := Action(v)
	if a < Invalid || a > ShootLeft {
		return Invalid
	}
	return a
}

// Index returns the position of the action in AllActions
func (a Action) Index() int { return int(a - Invalid) }

func (a Action) IsMove() bool  { return a >= MoveUp && a <= MoveLeft }
func (a Action) IsShoot() bool { return a >= ShootUp && a <= ShootLeft }

// Direction returns the direction of a move or shot, NoDirection otherwise
func (a Action) Direction() Direction {
	if a < MoveUp || a > ShootLeft {
		return NoDirection
	}
	return Direction(int(a) % 4)
}

// IsOpposite reports whether both actions carry exactly opposite directions
func (a Action) IsOpposite(b Action) bool {
	da, db := a.Direction(), b.Direction()
	return da.IsValid() && db.IsValid() && da.Opposite() == db
}

// MoveAction returns the move in direction d
func MoveAction(d Direction) Action {
	if !d.IsValid() {
		return Invalid
	}
	return MoveUp + Action(d)
}

// ShootAction returns the shot in direction d
func ShootAction(d Direction) Action {
	if !d.IsValid() {
		return Invalid
	}
	return ShootUp + Action(d)
}

func (a Action) String() string {
	switch {
	case a == Invalid:
		return "invalid"
	case a == Stay:
		return "stay"
	case a.IsMove():
		return "move-" + a.Direction().String()
	case a.IsShoot():
		return "shoot-" + a.Direction().String()
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// GameResult is the outcome of a match
type GameResult int

const (
	ResultOngoing GameResult = -2
	ResultDraw    GameResult = -1
	ResultSide0   GameResult = 0
	ResultSide1   GameResult = 1
)

// WinnerResult returns the result in which side wins
func WinnerResult(side int) GameResult { return GameResult(side) }

// IsOver is true for every result except ResultOngoing
func (r GameResult) IsOver() bool { return r != ResultOngoing }

func (r GameResult) String() string {
	switch r {
	case ResultOngoing:
		return "ongoing"
	case ResultDraw:
		return "draw"
	case ResultSide0:
		return "side0-wins"
	case ResultSide1:
		return "side1-wins"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}
