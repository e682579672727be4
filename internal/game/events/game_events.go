package events

import (
	"time"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted    = "game.started"
	TypeGameEnded      = "game.ended"
	TypeTurnApplied    = "turn.applied"
	TypeTurnReverted   = "turn.reverted"
	TypeActionRejected = "action.rejected"
	TypeShotsCancelled = "shots.cancelled"
	TypeItemDestroyed  = "item.destroyed"
)

// GameStartedEvent is published when an engine is created
type GameStartedEvent struct {
	BaseEvent
	MySide   int
	MaxTurns int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, mySide, maxTurns int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent: newBase(TypeGameStarted, gameID, 1),
		MySide:    mySide,
		MaxTurns:  maxTurns,
	}
}

// GameEndedEvent is published the first time a turn produces a final result
type GameEndedEvent struct {
	BaseEvent
	Result   core.GameResult
	Duration time.Duration
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, turn int, result core.GameResult, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBase(TypeGameEnded, gameID, turn),
		Result:    result,
		Duration:  duration,
	}
}

// TurnAppliedEvent is published after a turn has been applied. Turn is the
// number of the turn that was applied.
type TurnAppliedEvent struct {
	BaseEvent
	Actions [core.SideCount][core.TanksPerSide]core.Action
	// Alive marks the tanks that were alive when the turn started
	Alive     [core.SideCount][core.TanksPerSide]bool
	Destroyed int
	Elapsed   time.Duration
}

// NewTurnAppliedEvent creates a new TurnAppliedEvent
func NewTurnAppliedEvent(gameID string, turn int, actions [core.SideCount][core.TanksPerSide]core.Action, alive [core.SideCount][core.TanksPerSide]bool, destroyed int, elapsed time.Duration) *TurnAppliedEvent {
	return &TurnAppliedEvent{
		BaseEvent: newBase(TypeTurnApplied, gameID, turn),
		Actions:   actions,
		Alive:     alive,
		Destroyed: destroyed,
		Elapsed:   elapsed,
	}
}

// TurnRevertedEvent is published after a turn has been undone
type TurnRevertedEvent struct {
	BaseEvent
	EventsUndone int
}

// NewTurnRevertedEvent creates a new TurnRevertedEvent
func NewTurnRevertedEvent(gameID string, turn, undone int) *TurnRevertedEvent {
	return &TurnRevertedEvent{
		BaseEvent:    newBase(TypeTurnReverted, gameID, turn),
		EventsUndone: undone,
	}
}

// ActionRejectedEvent is published when ApplyTurn refuses an illegal action
type ActionRejectedEvent struct {
	BaseEvent
	Tank   core.TankID
	Action core.Action
	Reason string
}

// NewActionRejectedEvent creates a new ActionRejectedEvent
func NewActionRejectedEvent(gameID string, turn int, tank core.TankID, action core.Action, reason error) *ActionRejectedEvent {
	return &ActionRejectedEvent{
		BaseEvent: newBase(TypeActionRejected, gameID, turn),
		Tank:      tank,
		Action:    action,
		Reason:    reason.Error(),
	}
}

// ShotsCancelledEvent is published when two lone tanks fire at each other head-on
type ShotsCancelledEvent struct {
	BaseEvent
	Shooter  core.TankID
	Defender core.TankID
}

// NewShotsCancelledEvent creates a new ShotsCancelledEvent
func NewShotsCancelledEvent(gameID string, turn int, shooter, defender core.TankID) *ShotsCancelledEvent {
	return &ShotsCancelledEvent{
		BaseEvent: newBase(TypeShotsCancelled, gameID, turn),
		Shooter:   shooter,
		Defender:  defender,
	}
}

// ItemDestroyedEvent is published for each brick, base or tank removed by fire
type ItemDestroyedEvent struct {
	BaseEvent
	Location core.Coordinate
	Terrain  core.Terrain
	// Tank is only meaningful when IsTank is set
	Tank   core.TankID
	IsTank bool
}

// NewTerrainDestroyedEvent creates an ItemDestroyedEvent for a brick or base
func NewTerrainDestroyedEvent(gameID string, turn int, at core.Coordinate, terrain core.Terrain) *ItemDestroyedEvent {
	return &ItemDestroyedEvent{
		BaseEvent: newBase(TypeItemDestroyed, gameID, turn),
		Location:  at,
		Terrain:   terrain,
	}
}

// NewTankDestroyedEvent creates an ItemDestroyedEvent for a tank
func NewTankDestroyedEvent(gameID string, turn int, at core.Coordinate, tank core.TankID) *ItemDestroyedEvent {
	return &ItemDestroyedEvent{
		BaseEvent: newBase(TypeItemDestroyed, gameID, turn),
		Location:  at,
		Tank:      tank,
		IsTank:    true,
	}
}
