package model

// QuestionType defines the category of an interview question
type QuestionType string

const (
	QuestionTypeBehavioral  QuestionType = "behavioral"  // Past experiences, STAR framework
	QuestionTypeTechnical   QuestionType = "technical"   // Skills and tooling, direct answers
	QuestionTypeSituational QuestionType = "situational" // Hypothetical scenarios
)

// Difficulty is an ordered difficulty level: easy < medium < hard
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// MockQuestion is one pre-generated question in a mock interview sequence
type MockQuestion struct {
	Question          string       `json:"question" bson:"question"`
	Type              QuestionType `json:"type" bson:"type"`
	Difficulty        Difficulty   `json:"difficulty" bson:"difficulty"`
	Themes            []string     `json:"themes,omitempty" bson:"themes,omitempty"`
	ExpectedFramework string       `json:"expected_framework,omitempty" bson:"expectedFramework,omitempty"`
}

// FollowUpPrediction is one predicted interviewer follow-up with
// response guidance for the candidate
type FollowUpPrediction struct {
	Question string `json:"question"`
	Reason   string `json:"reason,omitempty"`
	Guidance string `json:"guidance,omitempty"`
}
