package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/mitchelldurbincs/tank2/internal/game/rules"
	"github.com/rs/zerolog"
)

// GameConfig describes the initial field and the engine's collaborators
type GameConfig struct {
	Brick, Water, Steel core.FieldMask
	MySide              int
	MaxTurns            int
	GameID              string
	Logger              zerolog.Logger
	EventBus            events.Publisher
}

// EngineInitializer handles the initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// NewEngine creates an engine from cfg
func NewEngine(cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize()
}

// CreateField creates an engine from the three terrain masks with default settings.
// Overlapping mask bits resolve with priority brick > water > steel.
func CreateField(brick, water, steel core.FieldMask, mySide int) (*Engine, error) {
	return NewEngine(GameConfig{Brick: brick, Water: water, Steel: steel, MySide: mySide})
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize() (*Engine, error) {
	if !core.ValidSide(ei.config.MySide) {
		return nil, fmt.Errorf("my side %d: %w", ei.config.MySide, core.ErrInvalidTank)
	}
	ei.setupDefaults()

	e := &Engine{
		turn:          1,
		mySide:        ei.config.MySide,
		gameID:        ei.config.GameID,
		logger:        ei.logger.With().Str("game_id", ei.config.GameID).Logger(),
		bus:           ei.config.EventBus,
		resultChecker: rules.NewResultChecker(ei.logger, ei.config.MaxTurns),
		startTime:     time.Now(),
	}
	ei.placeTerrain(e)
	ei.placeUnits(e)
	e.resetPending()
	e.history = []turnRecord{{actions: stayActions()}}
	e.turnProcessor = NewTurnProcessor(e)

	e.publish(events.NewGameStartedEvent(e.gameID, e.mySide, e.resultChecker.MaxTurns()))

	e.logger.Info().
		Int("my_side", e.mySide).
		Int("max_turns", e.resultChecker.MaxTurns()).
		Msg("Engine created successfully")
	return e, nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.GameID == "" {
		ei.config.GameID = uuid.NewString()
	}
	if ei.config.MaxTurns <= 0 {
		ei.logger.Debug().Int("max_turns", rules.DefaultMaxTurns).Msg("No turn limit provided, using default")
		ei.config.MaxTurns = rules.DefaultMaxTurns
	}
}

func (ei *EngineInitializer) placeTerrain(e *Engine) {
	terrain := core.DecodeTerrain(ei.config.Brick, ei.config.Water, ei.config.Steel)
	for y := 0; y < core.Height; y++ {
		for x := 0; x < core.Width; x++ {
			e.field[y][x] = core.Cell{Terrain: terrain[y][x]}
		}
	}
}

// placeUnits puts tanks and bases on their fixed cells, clearing any terrain there
func (ei *EngineInitializer) placeUnits(e *Engine) {
	for _, id := range core.AllTanks {
		pos := core.TankStart(id.Side, id.Slot)
		e.tanks[id.Side][id.Slot] = core.Tank{ID: id, Alive: true, Pos: pos}
		e.field[pos.Y][pos.X] = core.Cell{Tanks: core.Occupants(0).With(id)}
	}
	for side := 0; side < core.SideCount; side++ {
		pos := core.BasePosition(side)
		e.bases[side] = core.Base{Side: side, Pos: pos, Alive: true}
		e.field[pos.Y][pos.X] = core.Cell{Terrain: core.TerrainBase}
	}
}

func stayActions() [core.SideCount][core.TanksPerSide]core.Action {
	return [core.SideCount][core.TanksPerSide]core.Action{
		{core.Stay, core.Stay},
		{core.Stay, core.Stay},
	}
}
