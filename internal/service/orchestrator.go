package service

import (
	"context"
	"errors"
	"log"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/model"
	"prepmate/internal/repository"
)

var (
	// ErrNoPreviousQuestion is returned for a follow-up with nothing to
	// follow up on
	ErrNoPreviousQuestion = errors.New("no previous question to follow up on")

	// ErrNoMockQuestions is returned when a mock interview starts with
	// no generated questions
	ErrNoMockQuestions = errors.New("no mock questions available")

	// ErrNoCurrentQuestion is returned when a mock answer is requested
	// before any question was served
	ErrNoCurrentQuestion = errors.New("no current mock question")

	// ErrArchiveNotFound is returned when a restore targets an unknown
	// archived session
	ErrArchiveNotFound = errors.New("archived session not found")
)

// adaptiveInterval is how many scored mock questions pass between
// difficulty recomputations
const adaptiveInterval = 3

// Orchestrator composes the session store, answer pipeline, research and
// generation services into the three user-facing workflows: preparation,
// practice, and mock interview.
type Orchestrator struct {
	store     *SessionStore
	pipeline  *Pipeline
	research  *ResearchService
	generator *GeneratorService
	profiles  repository.ProfileRepo
	archive   repository.SessionRepo
	config    *config.Config
}

// NewOrchestrator creates the top-level orchestrator
func NewOrchestrator(
	cfg *config.Config,
	store *SessionStore,
	pipeline *Pipeline,
	research *ResearchService,
	generator *GeneratorService,
	profiles repository.ProfileRepo,
	archive repository.SessionRepo,
) *Orchestrator {
	return &Orchestrator{
		store:     store,
		pipeline:  pipeline,
		research:  research,
		generator: generator,
		profiles:  profiles,
		archive:   archive,
		config:    cfg,
	}
}

// ============= SESSION MANAGEMENT =============

// CreateSession starts a new session, replacing any prior one
func (o *Orchestrator) CreateSession(jobDescription, companyName, position string, mode model.InterviewMode) *model.Session {
	return o.store.CreateSession(jobDescription, companyName, position, mode)
}

// SessionContext returns the current bounded session context
func (o *Orchestrator) SessionContext() (*model.SessionContext, error) {
	return o.store.Context()
}

// ClearSession drops the live session
func (o *Orchestrator) ClearSession() {
	o.store.Clear()
}

// ExportSession returns the session snapshot and archives it
func (o *Orchestrator) ExportSession(ctx context.Context) (*model.Session, error) {
	session, err := o.store.Export()
	if err != nil {
		return nil, err
	}
	if o.archive != nil {
		if err := o.archive.Archive(ctx, session); err != nil {
			// Archiving is best-effort; the snapshot is still returned
			log.Printf("failed to archive session %s: %v", session.ID, err)
		}
	}
	return session, nil
}

// ImportSession replaces the live session with a saved snapshot
func (o *Orchestrator) ImportSession(session *model.Session) {
	o.store.Import(session)
}

// ListArchivedSessions returns the most recently archived snapshots
func (o *Orchestrator) ListArchivedSessions(ctx context.Context, limit int64) ([]*model.Session, error) {
	return o.archive.ListRecent(ctx, limit)
}

// RestoreSession loads an archived snapshot and makes it the live session
func (o *Orchestrator) RestoreSession(ctx context.Context, id string) (*model.Session, error) {
	session, err := o.archive.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrArchiveNotFound
	}
	o.store.Import(session)
	return session, nil
}

// ============= PREPARATION MODE =============

// PrepareForInterview researches the company and generates the mock
// interview question set, storing both in a fresh preparation session
func (o *Orchestrator) PrepareForInterview(ctx context.Context, companyName, position, jobDescription string, forceRefresh bool) (*model.PreparationPackage, error) {
	o.store.CreateSession(jobDescription, companyName, position, model.ModePreparation)

	pkg := &model.PreparationPackage{
		CompanyName:    companyName,
		Position:       position,
		JobDescription: jobDescription,
	}

	researchData, err := o.research.GetResearch(ctx, companyName, position, forceRefresh)
	if err != nil {
		// Degraded research still supports question generation
		pkg.Error = err.Error()
	}
	pkg.ResearchData = researchData

	questions, err := o.generator.GenerateMockQuestions(
		ctx, companyName, position, jobDescription,
		FormatResearch(researchData),
		model.DifficultyMedium, o.config.MockQuestionCount,
	)
	if err != nil {
		return nil, err
	}

	pkg.Questions = questions
	pkg.TotalQuestions = len(questions)
	pkg.DifficultyDistribution = difficultyDistribution(questions)
	pkg.TypeDistribution = typeDistribution(questions)

	o.store.AddResearchData(researchData)
	o.store.AddMockQuestions(questions)

	log.Printf("Mock interview ready: %d questions for %s at %s", len(questions), position, companyName)
	return pkg, nil
}

// ============= PRACTICE MODE =============

// PracticeQuestion processes one top-level practice question. Starting a
// new top-level question resets the follow-up chain.
func (o *Orchestrator) PracticeQuestion(ctx context.Context, question string) *model.QuestionResult {
	o.store.ResetFollowUpDepth()

	sctx, err := o.store.Context()
	if err != nil {
		// Practice works without a session; there is just no context
		sctx = nil
	}

	result := o.pipeline.ProcessQuestion(ctx, question, sctx)

	o.store.AddQuestion(question)
	o.store.AddAnswer(result.Answer, result.Critique)
	for _, rec := range result.History {
		o.store.AddIteration(rec)
	}
	o.store.AddConversation("user", question)
	o.store.AddConversation("assistant", result.Answer)

	return result
}

// PracticeFollowUp processes a follow-up to the last practiced question.
// At the configured maximum depth it returns the terminal outcome without
// invoking generation: the chain simply ends, which is not an error.
func (o *Orchestrator) PracticeFollowUp(ctx context.Context, followUp string) (*model.QuestionResult, error) {
	session := o.store.Current()
	if session == nil {
		return nil, ErrNoSession
	}

	questions := session.Practice.QuestionsAsked
	answers := session.Practice.AnswersGiven
	if len(questions) == 0 || len(answers) == 0 {
		return nil, ErrNoPreviousQuestion
	}

	if o.store.FollowUpDepth() >= o.config.FollowUpMaxDepth {
		log.Printf("Maximum follow-up depth (%d) reached", o.config.FollowUpMaxDepth)
		return &model.QuestionResult{
			Question:        followUp,
			MaxDepthReached: true,
		}, nil
	}

	originalQuestion := questions[len(questions)-1]
	originalAnswer := answers[len(answers)-1]

	sctx, _ := o.store.Context()
	result := o.pipeline.ProcessFollowUp(ctx, followUp, originalQuestion, originalAnswer, sctx)

	o.store.AddFollowUp(followUp, result.Answer)
	o.store.AddConversation("user", followUp)
	o.store.AddConversation("assistant", result.Answer)

	return result, nil
}

// PracticeSummary aggregates the practice critique scores so far
func (o *Orchestrator) PracticeSummary() (*model.PerformanceSummary, error) {
	if !o.store.Active() {
		return nil, ErrNoSession
	}
	return o.store.PerformanceSummary(), nil
}

// ============= MOCK INTERVIEW MODE =============

// StartMockInterview switches to mock mode and serves the first question
func (o *Orchestrator) StartMockInterview() (*model.MockQuestionTurn, error) {
	session := o.store.Current()
	if session == nil {
		return nil, ErrNoSession
	}

	o.store.SetMode(model.ModeMockInterview)

	first := o.store.NextMockQuestion()
	if first == nil {
		return nil, ErrNoMockQuestions
	}

	return &model.MockQuestionTurn{
		Question:       first,
		CurrentIndex:   session.Mock.CurrentQuestionIndex,
		TotalQuestions: len(session.Mock.GeneratedQuestions),
	}, nil
}

// AnswerMockQuestion generates a coached answer for the current mock
// question, records its score, and recomputes difficulty after every
// third scored question using the average of all scores so far
func (o *Orchestrator) AnswerMockQuestion(ctx context.Context) (*model.QuestionResult, error) {
	session := o.store.Current()
	if session == nil {
		return nil, ErrNoSession
	}

	idx := session.Mock.CurrentQuestionIndex - 1
	if idx < 0 || idx >= len(session.Mock.GeneratedQuestions) {
		return nil, ErrNoCurrentQuestion
	}
	current := session.Mock.GeneratedQuestions[idx]

	result := o.PracticeQuestion(ctx, current.Question)

	score := 0.0
	if result.Critique != nil {
		score = result.Critique.Overall
	}
	session.Mock.PerformanceScores = append(session.Mock.PerformanceScores, score)

	if len(session.Mock.PerformanceScores)%adaptiveInterval == 0 {
		o.adjustMockDifficulty(session)
	}

	return result, nil
}

// NextMockQuestion serves the next question, or nil when the sequence is
// exhausted
func (o *Orchestrator) NextMockQuestion() (*model.MockQuestionTurn, error) {
	session := o.store.Current()
	if session == nil {
		return nil, ErrNoSession
	}

	next := o.store.NextMockQuestion()
	if next == nil {
		return nil, nil
	}

	return &model.MockQuestionTurn{
		Question:       next,
		CurrentIndex:   session.Mock.CurrentQuestionIndex,
		TotalQuestions: len(session.Mock.GeneratedQuestions),
	}, nil
}

// MockSummary reports the mock interview outcome so far
func (o *Orchestrator) MockSummary() (*model.MockSummary, error) {
	session := o.store.Current()
	if session == nil {
		return nil, ErrNoSession
	}

	scores := session.Mock.PerformanceScores
	summary := &model.MockSummary{
		QuestionsAnswered: len(scores),
		TotalQuestions:    len(session.Mock.GeneratedQuestions),
		Difficulty:        session.Mock.DifficultyLevel,
		ScoresByQuestion:  scores,
	}
	if len(scores) > 0 {
		var total float64
		for _, s := range scores {
			total += s
		}
		summary.AverageScore = total / float64(len(scores))
	}
	return summary, nil
}

// adjustMockDifficulty recomputes difficulty from the full-history
// average of mock scores (not a sliding window)
func (o *Orchestrator) adjustMockDifficulty(session *model.Session) {
	scores := session.Mock.PerformanceScores
	if len(scores) == 0 {
		return
	}

	var total float64
	for _, s := range scores {
		total += s
	}
	avg := total / float64(len(scores))

	current := session.Mock.DifficultyLevel
	next := AdjustDifficulty(current, avg)
	if next != current {
		session.Mock.DifficultyLevel = next
		log.Printf("Difficulty adjusted: %s -> %s (avg score %.1f)", current, next, avg)
	}
}

// ============= PROFILE MANAGEMENT =============

// AddProfileDocument stores a candidate background document
func (o *Orchestrator) AddProfileDocument(ctx context.Context, kind model.ProfileKind, text string, metadata map[string]string) (*model.ProfileDocument, error) {
	doc := &model.ProfileDocument{
		Kind:     kind,
		Text:     text,
		Metadata: metadata,
		AddedAt:  time.Now(),
	}
	if err := o.profiles.Add(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
