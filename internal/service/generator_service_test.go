package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepmate/internal/model"
)

func TestGenerateMockQuestionsSplitsByType(t *testing.T) {
	llmClient := newScriptedLLM()
	llmClient.script("m-questions",
		`[{"question":"b1","type":"behavioral","difficulty":"medium"},{"question":"b2","type":"behavioral","difficulty":"medium"}]`,
		`[{"question":"t1","type":"technical","difficulty":"medium"},{"question":"t2","type":"technical","difficulty":"medium"}]`,
		`[{"question":"s1","type":"situational","difficulty":"medium"}]`,
	)

	gen := NewGeneratorService(testAIConfig(), llmClient)
	questions, err := gen.GenerateMockQuestions(context.Background(), "Acme", "Engineer", "jd", "research", model.DifficultyMedium, 5)
	require.NoError(t, err)

	assert.Len(t, questions, 5)
	assert.Equal(t, 2, typeDistribution(questions)["behavioral"])
	assert.Equal(t, 2, typeDistribution(questions)["technical"])
	assert.Equal(t, 1, typeDistribution(questions)["situational"])

	prompts := llmClient.prompts["m-questions"]
	require.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "Generate 2 behavioral")
	assert.Contains(t, prompts[1], "Generate 2 technical")
	assert.Contains(t, prompts[2], "Generate 1 situational")
}

func TestGenerateMockQuestionsCountSplit(t *testing.T) {
	llmClient := newScriptedLLM()
	llmClient.script("m-questions", `[]`)

	gen := NewGeneratorService(testAIConfig(), llmClient)
	_, err := gen.GenerateMockQuestions(context.Background(), "Acme", "Engineer", "jd", "research", model.DifficultyHard, 15)
	require.NoError(t, err)

	prompts := llmClient.prompts["m-questions"]
	require.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "Generate 6 behavioral")
	assert.Contains(t, prompts[1], "Generate 6 technical")
	assert.Contains(t, prompts[2], "Generate 3 situational")
	assert.Contains(t, prompts[0], "Difficulty level: hard")
}

func TestGenerateQuestionBatchUnparseableDegradesToEmpty(t *testing.T) {
	llmClient := newScriptedLLM()
	llmClient.script("m-questions", "sorry, here are some questions in prose")

	gen := NewGeneratorService(testAIConfig(), llmClient)
	questions, err := gen.GenerateMockQuestions(context.Background(), "Acme", "Engineer", "jd", "research", model.DifficultyMedium, 10)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestExtractKeyPointsFallsBack(t *testing.T) {
	llmClient := newScriptedLLM()
	llmClient.script("m-extract", "no json here")

	gen := NewGeneratorService(testAIConfig(), llmClient)
	points, tips := gen.ExtractKeyPoints(context.Background(), "q", "a")
	assert.Equal(t, []string{"Review the full answer"}, points)
	assert.Equal(t, []string{"Practice delivery out loud"}, tips)
}

func TestGenerateAnswerAcceptsPlainText(t *testing.T) {
	llmClient := newScriptedLLM()
	llmClient.script("m-generate", "  a plain text answer  ")

	gen := NewGeneratorService(testAIConfig(), llmClient)
	answer, err := gen.GenerateAnswer(context.Background(), &AnswerRequest{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "a plain text answer", answer)
}
