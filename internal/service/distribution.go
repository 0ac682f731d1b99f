package service

import "prepmate/internal/model"

// difficultyDistribution counts generated questions per difficulty level
func difficultyDistribution(questions []model.MockQuestion) map[string]int {
	dist := make(map[string]int)
	for _, q := range questions {
		dist[string(q.Difficulty)]++
	}
	return dist
}

// typeDistribution counts generated questions per question type
func typeDistribution(questions []model.MockQuestion) map[string]int {
	dist := make(map[string]int)
	for _, q := range questions {
		dist[string(q.Type)]++
	}
	return dist
}
