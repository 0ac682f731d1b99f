package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"prepmate/internal/config"
	"prepmate/internal/llm"
	"prepmate/internal/model"
)

// AnswerRequest carries everything the generator needs for one draft
type AnswerRequest struct {
	Question           string
	Analysis           string
	CVContext          string
	ExperienceContext  string
	PersonalityContext string
	CompanyContext     string

	// Improvements from the prior iteration's critique, injected as
	// explicit corrective guidance on iterations after the first
	Improvements []string
}

// GeneratorService produces answer drafts, refinements, key points,
// follow-up predictions and mock question sets
type GeneratorService struct {
	config *config.AIConfig
	llm    llm.Client
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(cfg *config.AIConfig, client llm.Client) *GeneratorService {
	return &GeneratorService{
		config: cfg,
		llm:    client,
	}
}

// AnalyzeQuestion classifies the question's type and intent. Pure over
// the question text and optional job context.
func (s *GeneratorService) AnalyzeQuestion(ctx context.Context, question, jobContext string) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockAnalysis(question), nil
	}

	prompt := fmt.Sprintf(`Analyze this interview question. Return ONLY valid JSON:
{
  "type": "behavioral" or "technical" or "situational",
  "intent": "what the interviewer is really probing for",
  "suggested_framework": "STAR" or "CAR" or "Direct",
  "key_themes": ["theme1", "theme2"]
}

Question: %s

Job context: %s`, question, jobContext)

	response, err := s.llm.Complete(ctx, s.config.Models.Analyze, prompt)
	if err != nil {
		return "", err
	}
	return response, nil
}

// GenerateAnswer drafts an interview answer from the question, analysis
// and all retrieved context
func (s *GeneratorService) GenerateAnswer(ctx context.Context, req *AnswerRequest) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockAnswer(req.Question), nil
	}

	improvementSection := ""
	if len(req.Improvements) > 0 {
		improvementSection = fmt.Sprintf(`
IMPORTANT - previous feedback to address:
%s
`, strings.Join(req.Improvements, "\n- "))
	}

	prompt := fmt.Sprintf(`You are an expert interview coach helping a candidate prepare an answer.

Guidelines:
- Be authentic: only use real experiences from the provided context
- Be specific: concrete details, metrics, outcomes
- Be concise: 2-3 minutes spoken (about 250-350 words)
- Use the appropriate framework (STAR for behavioral, direct for technical)
- Align with company culture when relevant
%s
Return ONLY valid JSON: {"answer": "the full interview answer"}

Interview question: %s

Question analysis: %s

Relevant CV information:
%s

Relevant experiences:
%s

Personality profile:
%s

Company context:
%s`,
		improvementSection, req.Question, req.Analysis,
		req.CVContext, req.ExperienceContext, req.PersonalityContext, req.CompanyContext)

	response, err := s.llm.Complete(ctx, s.config.Models.Generate, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil || parsed.Answer == "" {
		// The model sometimes returns the answer as plain text
		return strings.TrimSpace(response), nil
	}
	return parsed.Answer, nil
}

// RefineAnswer applies the single final polish pass. Constrained to
// clarity and flow: it must preserve the listed strengths and not alter
// core content.
func (s *GeneratorService) RefineAnswer(ctx context.Context, answer string, strengths []string) (string, error) {
	if !s.config.IsEnabled() {
		return answer, nil
	}

	prompt := fmt.Sprintf(`Polish this final interview answer. Only make minor improvements to clarity and flow. Do NOT change the core content.

Preserve these strengths: %s

Return ONLY valid JSON: {"answer": "the polished answer"}

Answer:
%s`, strings.Join(strengths, ", "), answer)

	response, err := s.llm.Complete(ctx, s.config.Models.Refine, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil || parsed.Answer == "" {
		return strings.TrimSpace(response), nil
	}
	return parsed.Answer, nil
}

// ExtractKeyPoints derives key points and delivery tips from the final
// answer. Never fails: a parse failure yields one generic bullet per list.
func (s *GeneratorService) ExtractKeyPoints(ctx context.Context, question, answer string) (keyPoints, deliveryTips []string) {
	fallbackPoints := []string{"Review the full answer"}
	fallbackTips := []string{"Practice delivery out loud"}

	if !s.config.IsEnabled() {
		return fallbackPoints, fallbackTips
	}

	prompt := fmt.Sprintf(`Extract from this interview answer:
1. Key points to remember (3-5 bullets): main messages and details not to forget
2. Delivery tips (3-4 bullets): tone, pacing, body language

Return ONLY valid JSON:
{"key_points": ["...", "..."], "delivery_tips": ["...", "..."]}

Question: %s

Answer: %s`, question, answer)

	response, err := s.llm.Complete(ctx, s.config.Models.Extract, prompt)
	if err != nil {
		return fallbackPoints, fallbackTips
	}

	var parsed struct {
		KeyPoints    []string `json:"key_points"`
		DeliveryTips []string `json:"delivery_tips"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return fallbackPoints, fallbackTips
	}
	if len(parsed.KeyPoints) == 0 {
		parsed.KeyPoints = fallbackPoints
	}
	if len(parsed.DeliveryTips) == 0 {
		parsed.DeliveryTips = fallbackTips
	}
	return parsed.KeyPoints, parsed.DeliveryTips
}

// PredictFollowUps derives likely interviewer follow-ups with response
// guidance. A parse failure yields an empty list, not an error.
func (s *GeneratorService) PredictFollowUps(ctx context.Context, question, answer string) []model.FollowUpPrediction {
	if !s.config.IsEnabled() {
		return nil
	}

	prompt := fmt.Sprintf(`Based on the interview answer, predict 2-3 likely follow-up questions an interviewer might ask.

Return ONLY valid JSON:
{"follow_ups": [{"question": "...", "reason": "why they'd ask it", "guidance": "how to respond"}]}

Original question: %s

Answer given: %s`, question, answer)

	response, err := s.llm.Complete(ctx, s.config.Models.FollowUp, prompt)
	if err != nil {
		return nil
	}

	var parsed struct {
		FollowUps []model.FollowUpPrediction `json:"follow_ups"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil
	}
	return parsed.FollowUps
}

// GenerateMockQuestions builds a full mock interview question set:
// 40% behavioral, 40% technical, the rest situational, shuffled so the
// types interleave
func (s *GeneratorService) GenerateMockQuestions(ctx context.Context, company, position, jobDescription, research string, difficulty model.Difficulty, count int) ([]model.MockQuestion, error) {
	behavioralCount := count * 4 / 10
	technicalCount := count * 4 / 10
	situationalCount := count - behavioralCount - technicalCount

	var questions []model.MockQuestion

	behavioral, err := s.generateQuestionBatch(ctx, s.behavioralPrompt(company, position, jobDescription, research, behavioralCount, difficulty))
	if err != nil {
		return nil, fmt.Errorf("behavioral questions: %w", err)
	}
	questions = append(questions, behavioral...)

	technical, err := s.generateQuestionBatch(ctx, s.technicalPrompt(position, jobDescription, technicalCount, difficulty))
	if err != nil {
		return nil, fmt.Errorf("technical questions: %w", err)
	}
	questions = append(questions, technical...)

	situational, err := s.generateQuestionBatch(ctx, s.situationalPrompt(company, position, research, situationalCount, difficulty))
	if err != nil {
		return nil, fmt.Errorf("situational questions: %w", err)
	}
	questions = append(questions, situational...)

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return questions, nil
}

func (s *GeneratorService) generateQuestionBatch(ctx context.Context, prompt string) ([]model.MockQuestion, error) {
	if !s.config.IsEnabled() {
		return s.mockQuestionBatch(), nil
	}

	response, err := s.llm.Complete(ctx, s.config.Models.Questions, prompt)
	if err != nil {
		return nil, err
	}

	var questions []model.MockQuestion
	if err := json.Unmarshal([]byte(response), &questions); err != nil {
		// Unparseable batch degrades to empty rather than failing the
		// whole preparation cycle
		return nil, nil
	}
	return questions, nil
}

func (s *GeneratorService) behavioralPrompt(company, position, jobDescription, research string, count int, difficulty model.Difficulty) string {
	return fmt.Sprintf(`Generate %d behavioral interview questions for %s at %s.

Requirements:
- Focus on past experiences and real situations
- Align with company culture: %s
- Match job requirements: %s
- Difficulty level: %s
- Use "Tell me about a time..." or "Describe a situation..." format

Return ONLY a JSON array:
[{"question": "...", "type": "behavioral", "difficulty": "%s", "themes": ["theme1"], "expected_framework": "STAR"}]`,
		count, position, company, clip(research, 500), clip(jobDescription, 500), difficulty, difficulty)
}

func (s *GeneratorService) technicalPrompt(position, jobDescription string, count int, difficulty model.Difficulty) string {
	return fmt.Sprintf(`Generate %d technical interview questions for %s.

Requirements:
- Focus on skills and technologies mentioned in: %s
- Difficulty level: %s
- Cover relevant tools, frameworks and methodologies

Return ONLY a JSON array:
[{"question": "...", "type": "technical", "difficulty": "%s", "themes": ["skill1"], "expected_framework": "Direct"}]`,
		count, position, clip(jobDescription, 500), difficulty, difficulty)
}

func (s *GeneratorService) situationalPrompt(company, position, research string, count int, difficulty model.Difficulty) string {
	return fmt.Sprintf(`Generate %d situational interview questions for %s at %s.

Requirements:
- Present hypothetical scenarios
- Align with company culture: %s
- Difficulty level: %s
- Use "What would you do if..." or "How would you handle..." format

Return ONLY a JSON array:
[{"question": "...", "type": "situational", "difficulty": "%s", "themes": ["theme1"], "expected_framework": "CAR"}]`,
		count, position, company, clip(research, 500), difficulty, difficulty)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Mock implementations, used when no AI API is configured

func (s *GeneratorService) mockAnalysis(question string) string {
	qType := model.QuestionTypeTechnical
	lower := strings.ToLower(question)
	if strings.Contains(lower, "tell me about") || strings.Contains(lower, "describe a") {
		qType = model.QuestionTypeBehavioral
	} else if strings.Contains(lower, "what would you") || strings.Contains(lower, "how would you") {
		qType = model.QuestionTypeSituational
	}
	return fmt.Sprintf(`{"type": %q, "intent": "mock analysis", "suggested_framework": "STAR", "key_themes": []}`, qType)
}

func (s *GeneratorService) mockAnswer(question string) string {
	return fmt.Sprintf("In a previous role I faced a situation much like %q. I assessed the constraints, chose a pragmatic approach, and delivered a measurable result. (Mock answer; configure GEMINI_API_KEY for real generation.)", question)
}

func (s *GeneratorService) mockQuestionBatch() []model.MockQuestion {
	return []model.MockQuestion{
		{
			Question:          "Tell me about a time you had to deliver under a tight deadline.",
			Type:              model.QuestionTypeBehavioral,
			Difficulty:        model.DifficultyMedium,
			Themes:            []string{"time management"},
			ExpectedFramework: "STAR",
		},
	}
}
