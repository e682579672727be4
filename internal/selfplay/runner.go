package selfplay

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/tank2/internal/ai"
	"github.com/mitchelldurbincs/tank2/internal/game"
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/mitchelldurbincs/tank2/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/tank2/internal/game/mapgen"
	"github.com/mitchelldurbincs/tank2/internal/monitoring"
	"github.com/rs/zerolog"
)

// Options configures a batch of matches
type Options struct {
	Games    int
	Workers  int
	Seed     int64
	MaxTurns int
	Map      mapgen.MapConfig
	AI       ai.Settings
	// EventLogLevel is the level game events are logged at
	EventLogLevel zerolog.Level
}

// Runner plays a batch of matches on a pool of workers
type Runner struct {
	opts        Options
	logger      zerolog.Logger
	monitor     *monitoring.MatchMonitor
	subscribers []events.Subscriber
}

// NewRunner creates a runner. Every subscriber is attached to the event bus of
// every match, so subscribers must be safe for concurrent use when Workers > 1.
func NewRunner(opts Options, logger zerolog.Logger, monitor *monitoring.MatchMonitor, subs ...events.Subscriber) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Runner{
		opts:        opts,
		logger:      logger.With().Str("component", "selfplay_runner").Logger(),
		monitor:     monitor,
		subscribers: subs,
	}
}

// Run plays opts.Games matches and returns their results in match order.
// The first failing match cancels the rest.
func (r *Runner) Run(ctx context.Context) ([]MatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make([]MatchResult, r.opts.Games)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				res, err := r.RunMatch(ctx, index)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				results[index] = res
			}
		}()
	}

feed:
	for i := 0; i < r.opts.Games; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunMatch generates the map for match index and plays it to the end
func (r *Runner) RunMatch(ctx context.Context, index int) (MatchResult, error) {
	seed := r.opts.Seed + int64(index)
	masks := mapgen.NewGenerator(r.opts.Map, rand.New(rand.NewSource(seed))).Generate()
	gameID := uuid.NewString()
	matchLogger := r.logger.With().Str("game_id", gameID).Int("match", index).Logger()

	bus := events.NewEventBus()
	bus.Subscribe(subscribers.NewLoggerSubscriber("event_logger", matchLogger, r.opts.EventLogLevel))
	for _, sub := range r.subscribers {
		bus.Subscribe(sub)
	}

	engine, err := game.NewEngine(game.GameConfig{
		Brick:    masks.Brick,
		Water:    masks.Water,
		Steel:    masks.Steel,
		MaxTurns: r.opts.MaxTurns,
		GameID:   gameID,
		Logger:   matchLogger,
		EventBus: bus,
	})
	if err != nil {
		return MatchResult{}, fmt.Errorf("match %d: %w", index, err)
	}

	if r.monitor != nil {
		r.monitor.MatchStarted()
	}
	start := time.Now()
	result, err := NewMatch(engine, r.opts.AI, matchLogger).Play(ctx)
	turns := engine.Turn() - 1
	if r.monitor != nil {
		r.monitor.MatchFinished(result.String(), turns)
	}
	if err != nil {
		return MatchResult{}, fmt.Errorf("match %d: %w", index, err)
	}

	matchLogger.Info().
		Int64("seed", seed).
		Str("result", result.String()).
		Int("turns", turns).
		Msg("Match finished")

	return MatchResult{
		Index:   index,
		GameID:  gameID,
		Seed:    seed,
		Result:  result,
		Turns:   turns,
		Board:   engine.String(),
		Elapsed: time.Since(start),
	}, nil
}

// Summary counts results by outcome
type Summary struct {
	Games        int
	Wins         [core.SideCount]int
	Draws        int
	AverageTurns float64
}

// Summarize tallies a batch of results
func Summarize(results []MatchResult) Summary {
	s := Summary{Games: len(results)}
	total := 0
	for _, res := range results {
		total += res.Turns
		switch res.Result {
		case core.ResultSide0, core.ResultSide1:
			s.Wins[res.Result]++
		default:
			s.Draws++
		}
	}
	if s.Games > 0 {
		s.AverageTurns = float64(total) / float64(s.Games)
	}
	return s
}
