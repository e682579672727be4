package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoAction      = errors.New("no action submitted")
	ErrShootCooldown = errors.New("tank fired on the previous turn")
	ErrOutOfBounds   = errors.New("destination outside the field")
	ErrCellBlocked   = errors.New("destination cell is not empty")
	ErrInvalidTank   = errors.New("invalid tank")
	ErrTurnUnderflow = errors.New("cannot revert before the first turn")
)

// ActionError carries the tank and action an illegality refers to
type ActionError struct {
	Tank   TankID
	Action Action
	Turn   int
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("turn %d: %s %s: %v", e.Turn, e.Tank, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// WrapActionError attaches tank and turn context to err. A nil err stays nil.
func WrapActionError(id TankID, a Action, turn int, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Tank: id, Action: a, Turn: turn, Err: err}
}
