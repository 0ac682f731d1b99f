package model

import "time"

// CritiqueResult is the scored critique of one answer iteration.
// Produced once per iteration; superseded, never mutated.
type CritiqueResult struct {
	Scores       map[string]float64 `json:"scores" bson:"scores"`
	Overall      float64            `json:"overall" bson:"overall"`
	Strengths    []string           `json:"strengths" bson:"strengths"`
	Improvements []string           `json:"improvements" bson:"improvements"`
	Alignment    string             `json:"company_alignment,omitempty" bson:"companyAlignment,omitempty"`

	// Fallback marks a degraded result substituted after a parse failure,
	// so callers can tell neutral defaults from genuine scores
	Fallback       bool   `json:"fallback,omitempty" bson:"fallback,omitempty"`
	FallbackReason string `json:"fallbackReason,omitempty" bson:"fallbackReason,omitempty"`
}

// IterationRecord is one generate+critique round. Appended, never rewritten.
type IterationRecord struct {
	Iteration int       `json:"iteration" bson:"iteration"`
	Score     float64   `json:"score" bson:"score"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
