package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepmate/internal/cache"
	"prepmate/internal/config"
	"prepmate/internal/model"
	"prepmate/internal/search"
)

// fakeSearcher counts calls per research field
type fakeSearcher struct {
	calls map[string]int
	err   error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{calls: make(map[string]int)}
}

func (f *fakeSearcher) result(field, company string) (*search.Result, error) {
	f.calls[field]++
	if f.err != nil {
		return nil, f.err
	}
	return &search.Result{
		Summary: fmt.Sprintf("%s for %s", field, company),
		Sources: []string{"https://example.com/" + field},
	}, nil
}

func (f *fakeSearcher) CompanyOverview(_ context.Context, company string) (*search.Result, error) {
	return f.result("overview", company)
}

func (f *fakeSearcher) CompanyCulture(_ context.Context, company string) (*search.Result, error) {
	return f.result("culture", company)
}

func (f *fakeSearcher) RecentNews(_ context.Context, company string, _ int) (*search.Result, error) {
	return f.result("news", company)
}

func (f *fakeSearcher) PositionInsights(_ context.Context, company, _ string) (*search.Result, error) {
	return f.result("position_analysis", company)
}

// memStore is an in-memory cache backend
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	val, ok := s.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return val, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.data[key] = value
	return nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

// fakeArchive records archived sessions
type fakeArchive struct {
	archived []*model.Session
	err      error
}

func (f *fakeArchive) Archive(_ context.Context, session *model.Session) error {
	if f.err != nil {
		return f.err
	}
	f.archived = append(f.archived, session)
	return nil
}

func (f *fakeArchive) GetByID(_ context.Context, id string) (*model.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.archived {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeArchive) ListRecent(_ context.Context, _ int64) ([]*model.Session, error) {
	return f.archived, nil
}

type orchestratorFixture struct {
	orchestrator *Orchestrator
	store        *SessionStore
	searcher     *fakeSearcher
	archive      *fakeArchive
}

func newOrchestratorFixture(aiCfg *config.AIConfig, llmClient *scriptedLLM) *orchestratorFixture {
	cfg := &config.Config{
		MaxIterations:     3,
		CritiqueThreshold: 7.0,
		FollowUpMaxDepth:  3,
		MockQuestionCount: 10,
	}

	profiles := &fakeProfileRepo{texts: map[model.ProfileKind]string{
		model.ProfileKindCV:         "cv text",
		model.ProfileKindExperience: "experience text",
	}}
	searcher := newFakeSearcher()
	archive := &fakeArchive{}
	store := NewSessionStore()

	researchCache := cache.NewResearchCache(newMemStore(), 24*time.Hour)
	research := NewResearchService(researchCache, searcher)
	generator := NewGeneratorService(aiCfg, llmClient)
	critic := NewCriticService(aiCfg, llmClient)
	retrieval := NewRetrievalService(profiles, research)
	pipeline := NewPipeline(cfg, generator, critic, retrieval)

	return &orchestratorFixture{
		orchestrator: NewOrchestrator(cfg, store, pipeline, research, generator, profiles, archive),
		store:        store,
		searcher:     searcher,
		archive:      archive,
	}
}

// scriptPracticeLLM scripts a single-iteration practice answer (the
// repeated-last-response behavior covers any number of questions)
func scriptPracticeLLM() *scriptedLLM {
	llmClient := newScriptedLLM()
	scriptHappyTail(llmClient)
	llmClient.script("m-generate", `{"answer":"coached answer"}`)
	llmClient.script("m-critique", critiqueJSON(9.0))
	return llmClient
}

func TestPracticeFollowUpDepthLimit(t *testing.T) {
	llmClient := scriptPracticeLLM()
	fx := newOrchestratorFixture(testAIConfig(), llmClient)
	ctx := context.Background()

	fx.orchestrator.CreateSession("job desc", "", "Engineer", model.ModePractice)
	fx.orchestrator.PracticeQuestion(ctx, "Tell me about a project")
	generateAfterTopLevel := llmClient.calls["m-generate"]

	for depth := 0; depth < 3; depth++ {
		result, err := fx.orchestrator.PracticeFollowUp(ctx, fmt.Sprintf("follow-up %d", depth))
		require.NoError(t, err)
		assert.False(t, result.MaxDepthReached, "depth %d should be accepted", depth)
		// Follow-up answers come out of the final refinement pass
		assert.Equal(t, "polished answer", result.Answer)
	}
	assert.Equal(t, 3, fx.store.FollowUpDepth())
	generateAfterChain := llmClient.calls["m-generate"]
	assert.Equal(t, generateAfterTopLevel+3, generateAfterChain)

	// The fourth follow-up is the terminal outcome, not an error, and
	// does not invoke generation
	result, err := fx.orchestrator.PracticeFollowUp(ctx, "one more")
	require.NoError(t, err)
	assert.True(t, result.MaxDepthReached)
	assert.Empty(t, result.Answer)
	assert.Equal(t, generateAfterChain, llmClient.calls["m-generate"])
	assert.Equal(t, 3, fx.store.FollowUpDepth())
}

func TestNewTopLevelQuestionResetsFollowUpChain(t *testing.T) {
	llmClient := scriptPracticeLLM()
	fx := newOrchestratorFixture(testAIConfig(), llmClient)
	ctx := context.Background()

	fx.orchestrator.CreateSession("job desc", "", "Engineer", model.ModePractice)
	fx.orchestrator.PracticeQuestion(ctx, "first question")
	for i := 0; i < 3; i++ {
		_, err := fx.orchestrator.PracticeFollowUp(ctx, "deeper")
		require.NoError(t, err)
	}

	fx.orchestrator.PracticeQuestion(ctx, "second question")
	assert.Equal(t, 0, fx.store.FollowUpDepth())

	result, err := fx.orchestrator.PracticeFollowUp(ctx, "fresh chain")
	require.NoError(t, err)
	assert.False(t, result.MaxDepthReached)
}

func TestPracticeFollowUpRequiresSessionAndQuestion(t *testing.T) {
	fx := newOrchestratorFixture(testAIConfig(), scriptPracticeLLM())
	ctx := context.Background()

	_, err := fx.orchestrator.PracticeFollowUp(ctx, "why?")
	assert.ErrorIs(t, err, ErrNoSession)

	fx.orchestrator.CreateSession("job desc", "", "Engineer", model.ModePractice)
	_, err = fx.orchestrator.PracticeFollowUp(ctx, "why?")
	assert.ErrorIs(t, err, ErrNoPreviousQuestion)
}

func TestMockInterviewAdaptiveDifficulty(t *testing.T) {
	llmClient := scriptPracticeLLM()
	fx := newOrchestratorFixture(testAIConfig(), llmClient)
	ctx := context.Background()

	fx.orchestrator.CreateSession("job desc", "", "Engineer", model.ModeMockInterview)
	questions := make([]model.MockQuestion, 6)
	for i := range questions {
		questions[i] = model.MockQuestion{
			Question:   fmt.Sprintf("mock question %d", i),
			Type:       model.QuestionTypeBehavioral,
			Difficulty: model.DifficultyMedium,
		}
	}
	fx.store.AddMockQuestions(questions)

	turn, err := fx.orchestrator.StartMockInterview()
	require.NoError(t, err)
	assert.Equal(t, "mock question 0", turn.Question.Question)
	assert.Equal(t, model.ModeMockInterview, fx.store.Current().Mode)

	// Scripted critiques score 9.0: after the third answer the average
	// crosses the promotion threshold and difficulty steps up
	for i := 0; i < 3; i++ {
		if i > 0 {
			next, err := fx.orchestrator.NextMockQuestion()
			require.NoError(t, err)
			require.NotNil(t, next)
		}
		_, err := fx.orchestrator.AnswerMockQuestion(ctx)
		require.NoError(t, err)

		if i < 2 {
			assert.Equal(t, model.DifficultyMedium, fx.store.Current().Mock.DifficultyLevel,
				"difficulty holds until the third scored question")
		}
	}
	assert.Equal(t, model.DifficultyHard, fx.store.Current().Mock.DifficultyLevel)

	summary, err := fx.orchestrator.MockSummary()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.QuestionsAnswered)
	assert.Equal(t, 6, summary.TotalQuestions)
	assert.InDelta(t, 9.0, summary.AverageScore, 1e-9)
}

func TestStartMockInterviewWithoutQuestions(t *testing.T) {
	fx := newOrchestratorFixture(testAIConfig(), scriptPracticeLLM())

	_, err := fx.orchestrator.StartMockInterview()
	assert.ErrorIs(t, err, ErrNoSession)

	fx.orchestrator.CreateSession("job desc", "", "Engineer", model.ModeMockInterview)
	_, err = fx.orchestrator.StartMockInterview()
	assert.ErrorIs(t, err, ErrNoMockQuestions)
}

func TestAnswerMockQuestionBeforeStart(t *testing.T) {
	fx := newOrchestratorFixture(testAIConfig(), scriptPracticeLLM())
	fx.orchestrator.CreateSession("job desc", "", "Engineer", model.ModeMockInterview)
	fx.store.AddMockQuestions([]model.MockQuestion{{Question: "q"}})

	_, err := fx.orchestrator.AnswerMockQuestion(context.Background())
	assert.ErrorIs(t, err, ErrNoCurrentQuestion)
}

func TestNextMockQuestionExhaustion(t *testing.T) {
	fx := newOrchestratorFixture(testAIConfig(), scriptPracticeLLM())
	fx.orchestrator.CreateSession("job desc", "", "Engineer", model.ModeMockInterview)
	fx.store.AddMockQuestions([]model.MockQuestion{{Question: "only one"}})

	_, err := fx.orchestrator.StartMockInterview()
	require.NoError(t, err)

	turn, err := fx.orchestrator.NextMockQuestion()
	require.NoError(t, err)
	assert.Nil(t, turn)
}

func TestPrepareForInterviewBuildsPackage(t *testing.T) {
	// AI disabled: question generation uses the built-in mock batches
	fx := newOrchestratorFixture(&config.AIConfig{}, nil)
	ctx := context.Background()

	pkg, err := fx.orchestrator.PrepareForInterview(ctx, "Acme", "Engineer", "build things", false)
	require.NoError(t, err)
	require.NotNil(t, pkg)

	assert.Empty(t, pkg.Error)
	require.NotNil(t, pkg.ResearchData)
	assert.False(t, pkg.ResearchData.FromCache)
	assert.Equal(t, "overview for Acme", pkg.ResearchData.Overview)
	assert.Equal(t, 1, fx.searcher.calls["overview"])
	assert.Equal(t, 1, fx.searcher.calls["position_analysis"])

	require.NotEmpty(t, pkg.Questions)
	assert.Equal(t, len(pkg.Questions), pkg.TotalQuestions)
	assert.Equal(t, len(pkg.Questions), pkg.TypeDistribution["behavioral"])
	assert.Equal(t, len(pkg.Questions), pkg.DifficultyDistribution["medium"])

	session := fx.store.Current()
	require.NotNil(t, session)
	assert.Equal(t, model.ModePreparation, session.Mode)
	assert.NotNil(t, session.ResearchData)
	assert.Len(t, session.Mock.GeneratedQuestions, len(pkg.Questions))
}

func TestPrepareForInterviewDegradesOnSearchFailure(t *testing.T) {
	fx := newOrchestratorFixture(&config.AIConfig{}, nil)
	fx.searcher.err = errors.New("search down")
	ctx := context.Background()

	pkg, err := fx.orchestrator.PrepareForInterview(ctx, "Acme", "Engineer", "build things", false)
	require.NoError(t, err)
	require.NotNil(t, pkg)

	assert.Contains(t, pkg.Error, "search down")
	require.NotNil(t, pkg.ResearchData)
	assert.Contains(t, pkg.ResearchData.Overview, "Error researching Acme")
	// Question generation still produced a usable set
	assert.NotEmpty(t, pkg.Questions)
}

func TestExportSessionArchives(t *testing.T) {
	fx := newOrchestratorFixture(&config.AIConfig{}, nil)
	ctx := context.Background()

	_, err := fx.orchestrator.ExportSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	created := fx.orchestrator.CreateSession("job desc", "Acme", "Engineer", model.ModePractice)
	exported, err := fx.orchestrator.ExportSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, exported.ID)
	require.Len(t, fx.archive.archived, 1)
	assert.Equal(t, created.ID, fx.archive.archived[0].ID)
}

func TestRestoreSessionFromArchive(t *testing.T) {
	fx := newOrchestratorFixture(&config.AIConfig{}, nil)
	ctx := context.Background()

	created := fx.orchestrator.CreateSession("job desc", "Acme", "Engineer", model.ModePractice)
	_, err := fx.orchestrator.ExportSession(ctx)
	require.NoError(t, err)

	fx.orchestrator.ClearSession()
	require.Nil(t, fx.store.Current())

	restored, err := fx.orchestrator.RestoreSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, restored.ID)
	require.NotNil(t, fx.store.Current())
	assert.Equal(t, created.ID, fx.store.Current().ID)

	_, err = fx.orchestrator.RestoreSession(ctx, "no-such-session")
	assert.ErrorIs(t, err, ErrArchiveNotFound)
}

func TestListArchivedSessions(t *testing.T) {
	fx := newOrchestratorFixture(&config.AIConfig{}, nil)
	ctx := context.Background()

	sessions, err := fx.orchestrator.ListArchivedSessions(ctx, 20)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	fx.orchestrator.CreateSession("job desc", "Acme", "Engineer", model.ModePractice)
	_, err = fx.orchestrator.ExportSession(ctx)
	require.NoError(t, err)

	sessions, err = fx.orchestrator.ListArchivedSessions(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestExportSessionSurvivesArchiveFailure(t *testing.T) {
	fx := newOrchestratorFixture(&config.AIConfig{}, nil)
	fx.archive.err = errors.New("mongo down")

	fx.orchestrator.CreateSession("job desc", "Acme", "Engineer", model.ModePractice)
	exported, err := fx.orchestrator.ExportSession(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, exported)
}
