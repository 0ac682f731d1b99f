package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"prepmate/internal/model"
)

var (
	// ErrNoSession is returned by reads that need an active session
	ErrNoSession = errors.New("no active session")
)

// conversationWindow bounds the context handed to the answer pipeline
// regardless of total history length
const conversationWindow = 10

// SessionStore holds the single live interview session. Access is
// single-threaded by construction: one question is fully processed before
// the next is accepted, so no locking here. A multi-client deployment
// must run one store per client rather than share this one.
//
// Mutators are no-ops without a session; reads that cannot proceed
// meaningfully return ErrNoSession.
type SessionStore struct {
	current *model.Session
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// CreateSession starts a new session, unconditionally replacing any prior
// one. There is no merge and no persistence beyond an explicit export.
func (s *SessionStore) CreateSession(jobDescription, companyName, position string, mode model.InterviewMode) *model.Session {
	now := time.Now()
	s.current = &model.Session{
		ID:             uuid.New().String(),
		JobDescription: jobDescription,
		CompanyName:    companyName,
		Position:       position,
		Mode:           mode,
		Mock: model.MockState{
			DifficultyLevel: model.DifficultyMedium,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	log.Printf("Created new %s session for %s - %s", mode, companyName, position)
	return s.current
}

// Current returns the live session, or nil
func (s *SessionStore) Current() *model.Session {
	return s.current
}

// Active reports whether a session exists
func (s *SessionStore) Active() bool {
	return s.current != nil
}

// SetMode changes the session mode
func (s *SessionStore) SetMode(mode model.InterviewMode) {
	if s.current == nil {
		return
	}
	s.current.Mode = mode
	s.touch()
}

// AddResearchData attaches company research to the session
func (s *SessionStore) AddResearchData(data *model.ResearchData) {
	if s.current == nil {
		return
	}
	s.current.ResearchData = data
	s.touch()
}

// AddMockQuestions stores the generated mock interview sequence
func (s *SessionStore) AddMockQuestions(questions []model.MockQuestion) {
	if s.current == nil {
		return
	}
	s.current.Mock.GeneratedQuestions = questions
	s.touch()
}

// NextMockQuestion returns the question at the current index and then
// advances it (post-increment). Nil once the sequence is exhausted.
func (s *SessionStore) NextMockQuestion() *model.MockQuestion {
	if s.current == nil {
		return nil
	}
	mock := &s.current.Mock
	if mock.CurrentQuestionIndex >= len(mock.GeneratedQuestions) {
		return nil
	}
	q := mock.GeneratedQuestions[mock.CurrentQuestionIndex]
	mock.CurrentQuestionIndex++
	s.touch()
	return &q
}

// AddQuestion records a new top-level question as current
func (s *SessionStore) AddQuestion(question string) {
	if s.current == nil {
		return
	}
	s.current.Practice.QuestionsAsked = append(s.current.Practice.QuestionsAsked, question)
	s.current.CurrentQuestion = question
	s.touch()
}

// AddAnswer records an answer and its critique
func (s *SessionStore) AddAnswer(answer string, critique *model.CritiqueResult) {
	if s.current == nil {
		return
	}
	s.current.Practice.AnswersGiven = append(s.current.Practice.AnswersGiven, answer)
	s.current.CurrentAnswer = answer
	if critique != nil {
		s.current.Practice.CritiqueScores = append(s.current.Practice.CritiqueScores, critique)
	}
	s.touch()
}

// AddIteration appends one generate+critique round to the history
func (s *SessionStore) AddIteration(record model.IterationRecord) {
	if s.current == nil {
		return
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	s.current.Practice.IterationHistory = append(s.current.Practice.IterationHistory, record)
}

// AddFollowUp records a follow-up exchange and deepens the chain. An empty
// answer marks the follow-up as still awaiting one.
func (s *SessionStore) AddFollowUp(question, answer string) {
	if s.current == nil {
		return
	}
	s.current.Practice.FollowUpsAsked = append(s.current.Practice.FollowUpsAsked, question)
	if answer != "" {
		s.current.Practice.FollowUpAnswers = append(s.current.Practice.FollowUpAnswers, answer)
	}
	s.current.FollowUpDepth++
	s.current.AwaitingFollowUp = answer == ""
	s.touch()
}

// FollowUpDepth is the chained follow-up count under the current
// top-level question
func (s *SessionStore) FollowUpDepth() int {
	if s.current == nil {
		return 0
	}
	return s.current.FollowUpDepth
}

// ResetFollowUpDepth starts a fresh follow-up chain. Only the orchestrator
// calls this, when a new top-level question begins.
func (s *SessionStore) ResetFollowUpDepth() {
	if s.current == nil {
		return
	}
	s.current.FollowUpDepth = 0
	s.current.AwaitingFollowUp = false
}

// AddConversation appends a message to the conversation history
func (s *SessionStore) AddConversation(role, content string) {
	if s.current == nil {
		return
	}
	s.current.ConversationHistory = append(s.current.ConversationHistory, model.ConversationEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	s.touch()
}

// Context returns the bounded session context for the next pipeline
// invocation: job context, research, mode, the last 10 conversation
// entries, and the follow-up state.
func (s *SessionStore) Context() (*model.SessionContext, error) {
	if s.current == nil {
		return nil, ErrNoSession
	}

	history := s.current.ConversationHistory
	if len(history) > conversationWindow {
		history = history[len(history)-conversationWindow:]
	}

	return &model.SessionContext{
		JobDescription:      s.current.JobDescription,
		CompanyName:         s.current.CompanyName,
		Position:            s.current.Position,
		ResearchData:        s.current.ResearchData,
		Mode:                s.current.Mode,
		ConversationHistory: history,
		FollowUpDepth:       s.current.FollowUpDepth,
		AwaitingFollowUp:    s.current.AwaitingFollowUp,
	}, nil
}

// PerformanceSummary aggregates practice critique scores
func (s *SessionStore) PerformanceSummary() *model.PerformanceSummary {
	if s.current == nil {
		return &model.PerformanceSummary{}
	}

	scores := s.current.Practice.CritiqueScores
	summary := &model.PerformanceSummary{
		QuestionCount: len(s.current.Practice.QuestionsAsked),
		FollowUpCount: len(s.current.Practice.FollowUpsAsked),
	}
	if len(scores) == 0 {
		return summary
	}

	var total float64
	for _, c := range scores {
		total += c.Overall
	}
	summary.AverageScore = total / float64(len(scores))

	latest := scores
	if len(latest) > 5 {
		latest = latest[len(latest)-5:]
	}
	summary.LatestScores = latest

	return summary
}

// Export returns the session snapshot for saving
func (s *SessionStore) Export() (*model.Session, error) {
	if s.current == nil {
		return nil, ErrNoSession
	}
	return s.current, nil
}

// Import replaces the live session with a saved snapshot
func (s *SessionStore) Import(session *model.Session) {
	s.current = session
	log.Println("Imported session data")
}

// Clear drops the live session
func (s *SessionStore) Clear() {
	s.current = nil
	log.Println("Cleared session")
}

func (s *SessionStore) touch() {
	s.current.UpdatedAt = time.Now()
}
