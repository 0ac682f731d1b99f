package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/model"
)

// pipelineState is one node of the per-question state machine
type pipelineState int

const (
	stateAnalyze pipelineState = iota
	stateRetrieve
	stateGenerate
	stateCritique
	stateRefine
	stateExtract
	statePredict
	stateDone
	stateError
)

func (s pipelineState) String() string {
	switch s {
	case stateAnalyze:
		return "analyze"
	case stateRetrieve:
		return "retrieve"
	case stateGenerate:
		return "generate"
	case stateCritique:
		return "critique"
	case stateRefine:
		return "refine"
	case stateExtract:
		return "extract"
	case statePredict:
		return "predict"
	case stateDone:
		return "done"
	case stateError:
		return "error"
	}
	return "unknown"
}

// Pipeline runs one question through analyze, retrieve, a bounded
// generate/critique loop, a single refinement pass, key-point extraction
// and follow-up prediction. It always returns a usable result: transient
// collaborator failures degrade to fallback content plus an error field.
type Pipeline struct {
	generator *GeneratorService
	critic    *CriticService
	retrieval *RetrievalService

	maxIterations     int
	critiqueThreshold float64
}

// NewPipeline creates an answer pipeline with the configured bounds
func NewPipeline(cfg *config.Config, generator *GeneratorService, critic *CriticService, retrieval *RetrievalService) *Pipeline {
	return &Pipeline{
		generator:         generator,
		critic:            critic,
		retrieval:         retrieval,
		maxIterations:     cfg.MaxIterations,
		critiqueThreshold: cfg.CritiqueThreshold,
	}
}

// pipelineRun is the mutable state of one question's processing
type pipelineRun struct {
	question string
	sctx     *model.SessionContext

	analysis string

	// Retrieved context, immutable after the retrieve state
	cvContext          string
	experienceContext  string
	personalityContext string
	companyContext     string

	currentAnswer string
	iterations    int
	critique      *model.CritiqueResult
	shouldIterate bool
	history       []model.IterationRecord

	finalAnswer  string
	keyPoints    []string
	deliveryTips []string
	followUps    []model.FollowUpPrediction

	errs []string
}

func (r *pipelineRun) recordErr(stage string, err error) {
	r.errs = append(r.errs, fmt.Sprintf("%s: %v", stage, err))
}

// ProcessQuestion runs the full pipeline for one question
func (p *Pipeline) ProcessQuestion(ctx context.Context, question string, sctx *model.SessionContext) *model.QuestionResult {
	if sctx == nil {
		sctx = &model.SessionContext{}
	}
	run := &pipelineRun{question: question, sctx: sctx}

	log.Printf("Processing question: %.60q", question)

	state := stateAnalyze
	for state != stateDone && state != stateError {
		state = p.step(ctx, run, state)
	}

	result := &model.QuestionResult{
		Question:     question,
		Answer:       run.finalAnswer,
		KeyPoints:    run.keyPoints,
		DeliveryTips: run.deliveryTips,
		FollowUps:    run.followUps,
		Critique:     run.critique,
		Iterations:   run.iterations,
		Analysis:     run.analysis,
		History:      run.history,
	}
	if len(run.errs) > 0 {
		result.Error = strings.Join(run.errs, "; ")
	}

	if result.Critique != nil {
		log.Printf("Question processed: iterations=%d score=%.1f/10", result.Iterations, result.Critique.Overall)
	}
	return result
}

// ProcessFollowUp re-enters the pipeline with the follow-up as the new
// question and the original Q/A pair injected into retrieved context.
// The iteration counter starts at zero: iteration and follow-up depth
// are independent.
func (p *Pipeline) ProcessFollowUp(ctx context.Context, followUp, originalQuestion, originalAnswer string, sctx *model.SessionContext) *model.QuestionResult {
	enhanced := model.SessionContext{}
	if sctx != nil {
		enhanced = *sctx
	}
	enhanced.PreviousQuestion = originalQuestion
	enhanced.PreviousAnswer = originalAnswer

	return p.ProcessQuestion(ctx, followUp, &enhanced)
}

// step performs the work of one state and returns the next. The only
// loop-back edge is critique -> generate, guarded by shouldIterate.
func (p *Pipeline) step(ctx context.Context, run *pipelineRun, state pipelineState) pipelineState {
	switch state {
	case stateAnalyze:
		return p.analyze(ctx, run)
	case stateRetrieve:
		return p.retrieve(ctx, run)
	case stateGenerate:
		return p.generate(ctx, run)
	case stateCritique:
		return p.critiqueStep(ctx, run)
	case stateRefine:
		return p.refine(ctx, run)
	case stateExtract:
		return p.extract(ctx, run)
	case statePredict:
		return p.predict(ctx, run)
	}
	return stateError
}

func (p *Pipeline) analyze(ctx context.Context, run *pipelineRun) pipelineState {
	analysis, err := p.generator.AnalyzeQuestion(ctx, run.question, run.sctx.JobDescription)
	if err != nil {
		// Analysis is advisory; the pipeline survives without it
		run.recordErr("analyze", err)
	}
	run.analysis = analysis
	return stateRetrieve
}

func (p *Pipeline) retrieve(ctx context.Context, run *pipelineRun) pipelineState {
	cv, err := p.retrieval.CV(ctx, run.question)
	if err != nil {
		run.recordErr("retrieve cv", err)
	}
	run.cvContext = cv

	exp, err := p.retrieval.Experience(ctx, run.question)
	if err != nil {
		run.recordErr("retrieve experience", err)
	}
	run.experienceContext = exp

	personality, err := p.retrieval.Personality(ctx)
	if err != nil {
		run.recordErr("retrieve personality", err)
	}
	run.personalityContext = personality

	if run.sctx.ResearchData != nil {
		run.companyContext = FormatResearch(run.sctx.ResearchData)
	} else if run.sctx.CompanyName != "" {
		company, err := p.retrieval.CompanyResearch(ctx, run.sctx.CompanyName, run.sctx.Position)
		if err != nil {
			run.recordErr("retrieve company research", err)
		}
		run.companyContext = company
	}

	// For follow-ups, the original exchange becomes part of the
	// retrieved context
	if run.sctx.PreviousQuestion != "" {
		qa := fmt.Sprintf("Previous question: %s\nAnswer given: %s", run.sctx.PreviousQuestion, run.sctx.PreviousAnswer)
		if run.experienceContext != "" {
			run.experienceContext += "\n\n" + qa
		} else {
			run.experienceContext = qa
		}
	}

	return stateGenerate
}

func (p *Pipeline) generate(ctx context.Context, run *pipelineRun) pipelineState {
	run.iterations++
	log.Printf("Generating answer (iteration %d)", run.iterations)

	var improvements []string
	if run.critique != nil && run.iterations > 1 {
		improvements = run.critique.Improvements
	}

	answer, err := p.generator.GenerateAnswer(ctx, &AnswerRequest{
		Question:           run.question,
		Analysis:           run.analysis,
		CVContext:          run.cvContext,
		ExperienceContext:  run.experienceContext,
		PersonalityContext: run.personalityContext,
		CompanyContext:     run.companyContext,
		Improvements:       improvements,
	})
	if err != nil {
		run.recordErr("generate", err)
		if run.currentAnswer == "" {
			// No draft at all: nothing downstream can degrade from
			return stateError
		}
		// Keep the previous draft and stop iterating
		run.shouldIterate = false
		return stateRefine
	}

	run.currentAnswer = answer
	return stateCritique
}

func (p *Pipeline) critiqueStep(ctx context.Context, run *pipelineRun) pipelineState {
	critique, err := p.critic.Critique(ctx, run.question, run.currentAnswer, run.cvContext)
	if err != nil {
		run.recordErr("critique", err)
	}

	if run.companyContext != "" {
		alignment, aerr := p.critic.Alignment(ctx, run.currentAnswer, run.companyContext)
		if aerr != nil {
			run.recordErr("alignment", aerr)
		} else {
			critique.Alignment = alignment
		}
	}

	run.critique = critique
	run.history = append(run.history, model.IterationRecord{
		Iteration: run.iterations,
		Score:     critique.Overall,
		Timestamp: time.Now(),
	})

	// Exclusive threshold: scoring exactly at it does not iterate
	run.shouldIterate = critique.Overall < p.critiqueThreshold && run.iterations < p.maxIterations
	log.Printf("Score: %.1f/10 | iterate: %v", critique.Overall, run.shouldIterate)

	if run.shouldIterate {
		return stateGenerate
	}
	return stateRefine
}

func (p *Pipeline) refine(ctx context.Context, run *pipelineRun) pipelineState {
	var strengths []string
	if run.critique != nil {
		strengths = run.critique.Strengths
	}

	refined, err := p.generator.RefineAnswer(ctx, run.currentAnswer, strengths)
	if err != nil || refined == "" {
		if err != nil {
			run.recordErr("refine", err)
		}
		// Refinement is optional polish; the latest draft stands
		run.finalAnswer = run.currentAnswer
	} else {
		run.finalAnswer = refined
	}
	return stateExtract
}

func (p *Pipeline) extract(ctx context.Context, run *pipelineRun) pipelineState {
	run.keyPoints, run.deliveryTips = p.generator.ExtractKeyPoints(ctx, run.question, run.finalAnswer)
	return statePredict
}

func (p *Pipeline) predict(ctx context.Context, run *pipelineRun) pipelineState {
	run.followUps = p.generator.PredictFollowUps(ctx, run.question, run.finalAnswer)
	return stateDone
}
