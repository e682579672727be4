package experience

import (
	"github.com/mitchelldurbincs/tank2/internal/game/core"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
)

// RewardConfig holds configurable reward values
type RewardConfig struct {
	WinGame      float32
	LoseGame     float32
	DestroyTank  float32
	LoseTank     float32
	DestroyBase  float32
	LoseBase     float32
	DestroyBrick float32
}

// DefaultRewardConfig returns the default reward configuration
func DefaultRewardConfig() *RewardConfig {
	return &RewardConfig{
		WinGame:      1.0,
		LoseGame:     -1.0,
		DestroyTank:  0.3,
		LoseTank:     -0.3,
		DestroyBase:  0.5,
		LoseBase:     -0.5,
		DestroyBrick: 0.01,
	}
}

// CalculateReward scores the destructions of one turn from side's point of view
func CalculateReward(destroyed []*events.ItemDestroyedEvent, side int) float32 {
	return CalculateRewardWithConfig(destroyed, side, DefaultRewardConfig())
}

// CalculateRewardWithConfig scores the destructions of one turn using a custom configuration.
// Destroyed bricks are credited to both sides since the event does not carry the shooter.
func CalculateRewardWithConfig(destroyed []*events.ItemDestroyedEvent, side int, config *RewardConfig) float32 {
	reward := float32(0.0)

	for _, d := range destroyed {
		switch {
		case d.IsTank && d.Tank.Side == side:
			reward += config.LoseTank
		case d.IsTank:
			reward += config.DestroyTank
		case d.Terrain == core.TerrainBase && core.SideOfBase(d.Location) == side:
			reward += config.LoseBase
		case d.Terrain == core.TerrainBase:
			reward += config.DestroyBase
		case d.Terrain == core.TerrainBrick:
			reward += config.DestroyBrick
		}
	}

	return NormalizeReward(reward)
}

// OutcomeValue is the final value of a match for side: 1 for a win, -1 for a loss
// and 0 for a draw or an unfinished match
func OutcomeValue(result core.GameResult, side int, config *RewardConfig) float32 {
	switch result {
	case core.ResultOngoing, core.ResultDraw:
		return 0
	case core.WinnerResult(side):
		return config.WinGame
	default:
		return config.LoseGame
	}
}

// NormalizeReward applies normalization to keep rewards in reasonable range
func NormalizeReward(reward float32) float32 {
	if reward > 1.0 {
		return 1.0
	} else if reward < -1.0 {
		return -1.0
	}
	return reward
}
