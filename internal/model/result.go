package model

// QuestionResult is the complete output of processing one question through
// the answer pipeline. Always populated best-effort: partial failures
// degrade to fallback content plus the Error field.
type QuestionResult struct {
	Question     string               `json:"question"`
	Answer       string               `json:"answer"`
	KeyPoints    []string             `json:"key_points"`
	DeliveryTips []string             `json:"delivery_tips"`
	FollowUps    []FollowUpPrediction `json:"follow_up_questions"`
	Critique     *CritiqueResult      `json:"critique_scores,omitempty"`
	Iterations   int                  `json:"iterations"`
	Analysis     string               `json:"question_analysis,omitempty"`
	History      []IterationRecord    `json:"iteration_history,omitempty"`

	// MaxDepthReached marks the terminal outcome of a follow-up chain that
	// hit the depth bound. Not an error: the chain simply ends here.
	MaxDepthReached bool `json:"max_depth_reached,omitempty"`

	Error string `json:"error,omitempty"`
}

// PreparationPackage is the output of preparation mode: company research
// plus a generated mock interview
type PreparationPackage struct {
	CompanyName            string         `json:"company_name"`
	Position               string         `json:"position"`
	JobDescription         string         `json:"job_description"`
	ResearchData           *ResearchData  `json:"research_data"`
	Questions              []MockQuestion `json:"questions"`
	TotalQuestions         int            `json:"total_questions"`
	DifficultyDistribution map[string]int `json:"difficulty_distribution"`
	TypeDistribution       map[string]int `json:"type_distribution"`
	Error                  string         `json:"error,omitempty"`
}

// MockQuestionTurn is one step of a mock interview
type MockQuestionTurn struct {
	Question       *MockQuestion `json:"question"`
	CurrentIndex   int           `json:"current_index"`
	TotalQuestions int           `json:"total_questions"`
}

// MockSummary reports a mock interview's outcome
type MockSummary struct {
	AverageScore      float64    `json:"average_score"`
	QuestionsAnswered int        `json:"questions_answered"`
	TotalQuestions    int        `json:"total_questions"`
	Difficulty        Difficulty `json:"difficulty_progression"`
	ScoresByQuestion  []float64  `json:"scores_by_question"`
}
