package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = ls.logger.Debug()
	case zerolog.WarnLevel:
		logEvent = ls.logger.Warn()
	case zerolog.ErrorLevel:
		logEvent = ls.logger.Error()
	default:
		logEvent = ls.logger.Info()
	}

	logEvent.
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("my_side", e.MySide).
			Int("max_turns", e.MaxTurns)

	case *events.GameEndedEvent:
		logEvent.
			Int("turn", e.Turn).
			Str("result", e.Result.String()).
			Dur("duration", e.Duration)

	case *events.TurnAppliedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("destroyed", e.Destroyed).
			Dur("elapsed", e.Elapsed).
			Strs("actions", []string{
				e.Actions[0][0].String(), e.Actions[0][1].String(),
				e.Actions[1][0].String(), e.Actions[1][1].String(),
			})

	case *events.TurnRevertedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("events_undone", e.EventsUndone)

	case *events.ActionRejectedEvent:
		logEvent.
			Int("turn", e.Turn).
			Str("tank", e.Tank.String()).
			Str("action", e.Action.String()).
			Str("reason", e.Reason)

	case *events.ShotsCancelledEvent:
		logEvent.
			Int("turn", e.Turn).
			Str("shooter", e.Shooter.String()).
			Str("defender", e.Defender.String())

	case *events.ItemDestroyedEvent:
		logEvent.
			Int("turn", e.Turn).
			Str("location", e.Location.String())
		if e.IsTank {
			logEvent.Str("tank", e.Tank.String())
		} else {
			logEvent.Str("terrain", e.Terrain.String())
		}
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
