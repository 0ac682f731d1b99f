package service

import "prepmate/internal/model"

// Difficulty staircase thresholds on the rolling average (0-10 scale)
const (
	promoteThreshold = 8.5
	demoteThreshold  = 5.5
)

// AdjustDifficulty maps a rolling average score to the next difficulty
// level. A single call moves at most one step: strong performance
// (avg >= 8.5) promotes, weak performance (avg <= 5.5) demotes, the dead
// band in between leaves the level unchanged. Easy and hard clamp.
func AdjustDifficulty(current model.Difficulty, averageScore float64) model.Difficulty {
	switch {
	case averageScore >= promoteThreshold:
		switch current {
		case model.DifficultyEasy:
			return model.DifficultyMedium
		case model.DifficultyMedium:
			return model.DifficultyHard
		}
	case averageScore <= demoteThreshold:
		switch current {
		case model.DifficultyHard:
			return model.DifficultyMedium
		case model.DifficultyMedium:
			return model.DifficultyEasy
		}
	}
	return current
}
