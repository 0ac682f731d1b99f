package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"prepmate/internal/config"
	"prepmate/internal/llm"
	"prepmate/internal/model"
)

// CriticService scores answer drafts. Structured parsing of the model
// output is best-effort: a parse failure substitutes a fixed neutral
// fallback score set instead of failing the question.
type CriticService struct {
	config *config.AIConfig
	llm    llm.Client
}

// NewCriticService creates a new critic service
func NewCriticService(cfg *config.AIConfig, client llm.Client) *CriticService {
	return &CriticService{
		config: cfg,
		llm:    client,
	}
}

// Critique scores an answer draft against the question and CV context.
// The returned critique is always usable; the error, when non-nil, marks
// a transient collaborator failure the caller records but survives.
func (s *CriticService) Critique(ctx context.Context, question, answer, cvContext string) (*model.CritiqueResult, error) {
	if !s.config.IsEnabled() {
		return s.heuristicCritique(answer), nil
	}

	prompt := s.buildCritiquePrompt(question, answer, cvContext)
	response, err := s.llm.Complete(ctx, s.config.Models.Critique, prompt)
	if err != nil {
		return fallbackCritique("critique call failed: " + err.Error()), err
	}

	var parsed struct {
		Scores       map[string]float64 `json:"scores"`
		Overall      float64            `json:"overall"`
		Strengths    []string           `json:"strengths"`
		Improvements []string           `json:"improvements"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return fallbackCritique("unparseable critique output"), nil
	}
	if parsed.Overall == 0 && len(parsed.Scores) == 0 {
		return fallbackCritique("critique output missing scores"), nil
	}

	return &model.CritiqueResult{
		Scores:       parsed.Scores,
		Overall:      parsed.Overall,
		Strengths:    parsed.Strengths,
		Improvements: parsed.Improvements,
	}, nil
}

// Alignment assesses how well the answer matches the company's culture
// and values. Best effort: an empty string on failure.
func (s *CriticService) Alignment(ctx context.Context, answer, companyResearch string) (string, error) {
	if !s.config.IsEnabled() {
		return "", nil
	}

	prompt := fmt.Sprintf(`Assess how well this interview answer aligns with the company's culture and values.
Return ONLY valid JSON: {"alignment": "two or three sentences on fit, citing specifics"}

Company research:
%s

Answer:
%s`, companyResearch, answer)

	response, err := s.llm.Complete(ctx, s.config.Models.Critique, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Alignment string `json:"alignment"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		// Raw text is still usable alignment commentary
		return strings.TrimSpace(response), nil
	}
	return parsed.Alignment, nil
}

func (s *CriticService) buildCritiquePrompt(question, answer, cvContext string) string {
	return fmt.Sprintf(`You are a strict interview coach scoring a candidate's answer. Return ONLY valid JSON matching this schema:
{
  "scores": {
    "authenticity": 0.0 to 10.0,
    "relevance": 0.0 to 10.0,
    "structure": 0.0 to 10.0,
    "specificity": 0.0 to 10.0,
    "impact": 0.0 to 10.0,
    "length": 0.0 to 10.0
  },
  "overall": 0.0 to 10.0,
  "strengths": ["what works well"],
  "improvements": ["concrete, actionable fixes"]
}

Question: %s

Answer: %s

Candidate CV context (for authenticity checks):
%s

Score each dimension, compute an overall score, and list strengths and improvements.
Authenticity means the answer only claims experiences supported by the CV context.`,
		question, answer, cvContext)
}

// fallbackCritique is the fixed neutral score set substituted when the
// critique output cannot be parsed. Degraded, not fatal: Fallback marks
// it so callers and tests can tell it from genuine scores.
func fallbackCritique(reason string) *model.CritiqueResult {
	return &model.CritiqueResult{
		Scores: map[string]float64{
			"authenticity": 7.0,
			"relevance":    7.0,
			"structure":    7.0,
			"specificity":  7.0,
			"impact":       7.0,
			"length":       7.0,
		},
		Overall:        7.0,
		Strengths:      []string{"Answer provided"},
		Improvements:   []string{"Could be more specific"},
		Fallback:       true,
		FallbackReason: reason,
	}
}

// heuristicCritique scores by answer length when no AI API is configured,
// so the pipeline stays exercisable in local development
func (s *CriticService) heuristicCritique(answer string) *model.CritiqueResult {
	wordCount := len(strings.Fields(answer))
	score := float64(wordCount) / 30.0
	if score > 10.0 {
		score = 10.0
	}

	return &model.CritiqueResult{
		Scores: map[string]float64{
			"authenticity": score,
			"relevance":    score,
			"structure":    score,
			"specificity":  score,
			"impact":       score,
			"length":       score,
		},
		Overall:        score,
		Strengths:      []string{"Mock critique based on answer length"},
		Improvements:   []string{"Configure GEMINI_API_KEY for real critiques"},
		Fallback:       true,
		FallbackReason: "ai disabled",
	}
}
