package model

import "time"

// InterviewMode is the workflow the session is currently in
type InterviewMode string

const (
	ModePreparation   InterviewMode = "preparation"
	ModePractice      InterviewMode = "practice"
	ModeMockInterview InterviewMode = "mock_interview"
)

// ConversationEntry is one message in the session conversation log
type ConversationEntry struct {
	Role      string    `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// PracticeState holds the ordered question/answer/critique/follow-up logs
// for practice mode. All slices are append-only.
type PracticeState struct {
	QuestionsAsked   []string          `json:"questions_asked" bson:"questionsAsked"`
	AnswersGiven     []string          `json:"answers_given" bson:"answersGiven"`
	FollowUpsAsked   []string          `json:"follow_ups_asked" bson:"followUpsAsked"`
	FollowUpAnswers  []string          `json:"follow_up_answers" bson:"followUpAnswers"`
	CritiqueScores   []*CritiqueResult `json:"critique_scores" bson:"critiqueScores"`
	IterationHistory []IterationRecord `json:"iteration_history" bson:"iterationHistory"`
}

// MockState holds the generated question sequence and scoring for mock
// interview mode. CurrentQuestionIndex only ever moves forward and is
// bounded by len(GeneratedQuestions).
type MockState struct {
	GeneratedQuestions   []MockQuestion `json:"generated_questions" bson:"generatedQuestions"`
	CurrentQuestionIndex int            `json:"current_question_index" bson:"currentQuestionIndex"`
	DifficultyLevel      Difficulty     `json:"difficulty_level" bson:"difficultyLevel"`
	PerformanceScores    []float64      `json:"performance_scores" bson:"performanceScores"`
}

// Session is the single live interview-prep session. Creating a new one
// discards the old; there is no persistence beyond an explicit export.
type Session struct {
	ID string `json:"id" bson:"_id,omitempty"`

	// Job context
	JobDescription string `json:"job_description,omitempty" bson:"jobDescription,omitempty"`
	CompanyName    string `json:"company_name,omitempty" bson:"companyName,omitempty"`
	Position       string `json:"position,omitempty" bson:"position,omitempty"`

	ResearchData *ResearchData `json:"research_data,omitempty" bson:"researchData,omitempty"`

	Mode InterviewMode `json:"mode" bson:"mode"`

	Mock     MockState     `json:"mock_session" bson:"mockSession"`
	Practice PracticeState `json:"practice_session" bson:"practiceSession"`

	ConversationHistory []ConversationEntry `json:"conversation_history" bson:"conversationHistory"`
	CurrentQuestion     string              `json:"current_question,omitempty" bson:"currentQuestion,omitempty"`
	CurrentAnswer       string              `json:"current_answer,omitempty" bson:"currentAnswer,omitempty"`
	AwaitingFollowUp    bool                `json:"awaiting_follow_up" bson:"awaitingFollowUp"`
	FollowUpDepth       int                 `json:"follow_up_depth" bson:"followUpDepth"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// SessionContext is the bounded context window handed to the answer
// pipeline: job context, research, and only the last conversation entries.
type SessionContext struct {
	JobDescription      string              `json:"job_description"`
	CompanyName         string              `json:"company_name"`
	Position            string              `json:"position"`
	ResearchData        *ResearchData       `json:"research_data,omitempty"`
	Mode                InterviewMode       `json:"mode"`
	ConversationHistory []ConversationEntry `json:"conversation_history"`
	FollowUpDepth       int                 `json:"follow_up_depth"`
	AwaitingFollowUp    bool                `json:"awaiting_follow_up"`

	// Set only when re-entering the pipeline for a follow-up question
	PreviousQuestion string `json:"previous_question,omitempty"`
	PreviousAnswer   string `json:"previous_answer,omitempty"`
}

// PerformanceSummary aggregates critique scores for adaptive difficulty
// and end-of-session reporting
type PerformanceSummary struct {
	AverageScore  float64           `json:"average_score"`
	QuestionCount int               `json:"question_count"`
	FollowUpCount int               `json:"follow_up_count"`
	LatestScores  []*CritiqueResult `json:"latest_scores,omitempty"`
}
