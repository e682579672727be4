package experience

import (
	"sync"

	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/rs/zerolog"
)

// Record is one tank's decision on one applied turn
type Record struct {
	GameID     string  `parquet:"game_id,dict"`
	Turn       int32   `parquet:"turn"`
	Side       int32   `parquet:"side"`
	Slot       int32   `parquet:"slot"`
	Action     int32   `parquet:"action"`
	ActionName string  `parquet:"action_name,dict"`
	Reward     float32 `parquet:"reward"`
	// Value is the final outcome from the tank's side, set when the match ends
	Value float32 `parquet:"value"`
	Done  bool    `parquet:"done"`
}

// Collector turns engine events into Records. It subscribes to an event bus and
// may be shared by several matches.
type Collector struct {
	id      string
	mu      sync.Mutex
	maxSize int
	config  *RewardConfig
	logger  zerolog.Logger

	records   []Record
	destroyed map[string][]*events.ItemDestroyedEvent
	dropped   int
}

// NewCollector creates a collector holding at most maxSize records
func NewCollector(id string, maxSize int, config *RewardConfig, logger zerolog.Logger) *Collector {
	if config == nil {
		config = DefaultRewardConfig()
	}
	return &Collector{
		id:        id,
		maxSize:   maxSize,
		config:    config,
		logger:    logger.With().Str("component", "experience_collector").Logger(),
		records:   make([]Record, 0, maxSize),
		destroyed: make(map[string][]*events.ItemDestroyedEvent),
	}
}

// ID returns the subscriber's unique identifier
func (c *Collector) ID() string {
	return c.id
}

// InterestedIn returns true for the events that shape a record
func (c *Collector) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeItemDestroyed, events.TypeTurnApplied, events.TypeTurnReverted, events.TypeGameEnded:
		return true
	}
	return false
}

// HandleEvent folds one engine event into the collected records
func (c *Collector) HandleEvent(event events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := event.(type) {
	case *events.ItemDestroyedEvent:
		c.destroyed[e.GameID()] = append(c.destroyed[e.GameID()], e)
	case *events.TurnAppliedEvent:
		c.onTurnApplied(e)
	case *events.TurnRevertedEvent:
		c.onTurnReverted(e)
	case *events.GameEndedEvent:
		c.onGameEnd(e)
	}
}

func (c *Collector) onTurnApplied(e *events.TurnAppliedEvent) {
	gameID := e.GameID()
	destroyed := c.destroyed[gameID]
	delete(c.destroyed, gameID)

	for _, id := range core.AllTanks {
		if !e.Alive[id.Side][id.Slot] {
			continue
		}
		if len(c.records) >= c.maxSize {
			c.dropped++
			c.logger.Warn().
				Int("buffer_size", len(c.records)).
				Int("max_size", c.maxSize).
				Msg("Experience buffer full, dropping record")
			continue
		}

		action := e.Actions[id.Side][id.Slot]
		c.records = append(c.records, Record{
			GameID:     gameID,
			Turn:       int32(e.Turn),
			Side:       int32(id.Side),
			Slot:       int32(id.Slot),
			Action:     int32(action),
			ActionName: action.String(),
			Reward:     CalculateRewardWithConfig(destroyed, id.Side, c.config),
		})
	}
}

// onTurnReverted drops the records of the undone turn and anything after it. The
// game is running again, so outcomes stamped by an earlier end are cleared.
func (c *Collector) onTurnReverted(e *events.TurnRevertedEvent) {
	kept := c.records[:0]
	removed := 0
	for _, r := range c.records {
		if r.GameID != e.GameID() {
			kept = append(kept, r)
			continue
		}
		if int(r.Turn) >= e.Turn {
			removed++
			continue
		}
		r.Value = 0
		r.Done = false
		kept = append(kept, r)
	}
	c.records = kept
	c.logger.Debug().Int("turn", e.Turn).Int("removed", removed).Msg("Discarded reverted records")
}

// onGameEnd stamps the match outcome on every record of the game
func (c *Collector) onGameEnd(e *events.GameEndedEvent) {
	lastTurn := int32(e.Turn - 1)
	count := 0
	for i := range c.records {
		r := &c.records[i]
		if r.GameID != e.GameID() {
			continue
		}
		r.Value = OutcomeValue(e.Result, int(r.Side), c.config)
		r.Done = r.Turn == lastTurn
		count++
	}

	c.logger.Info().
		Str("game_id", e.GameID()).
		Str("result", e.Result.String()).
		Int("records", count).
		Int("final_turn", int(lastTurn)).
		Msg("Game ended, finalizing experience collection")
}

// Records returns a copy of all collected records
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Record, len(c.records))
	copy(result, c.records)
	return result
}

// Count returns the current number of records
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Dropped returns how many records were lost to a full buffer
func (c *Collector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Drain returns all records and empties the buffer
func (c *Collector) Drain() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.records
	c.records = make([]Record, 0, c.maxSize)
	return out
}
