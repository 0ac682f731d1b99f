package handler

import (
	"errors"
	"net/http"

	"prepmate/internal/service"
)

// MockHandler handles mock-interview endpoints
type MockHandler struct {
	orchestrator *service.Orchestrator
}

// NewMockHandler creates a new mock interview handler
func NewMockHandler(orchestrator *service.Orchestrator) *MockHandler {
	return &MockHandler{orchestrator: orchestrator}
}

// Start handles POST /v1/mock/start
func (h *MockHandler) Start(w http.ResponseWriter, r *http.Request) {
	turn, err := h.orchestrator.StartMockInterview()
	if err != nil {
		writeMockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

// Answer handles POST /v1/mock/answer
func (h *MockHandler) Answer(w http.ResponseWriter, r *http.Request) {
	result, err := h.orchestrator.AnswerMockQuestion(r.Context())
	if err != nil {
		writeMockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Next handles POST /v1/mock/next
func (h *MockHandler) Next(w http.ResponseWriter, r *http.Request) {
	turn, err := h.orchestrator.NextMockQuestion()
	if err != nil {
		writeMockError(w, err)
		return
	}
	if turn == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"finished": true})
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

// Summary handles GET /v1/mock/summary
func (h *MockHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orchestrator.MockSummary()
	if err != nil {
		writeMockError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeMockError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoMockQuestions), errors.Is(err, service.ErrNoCurrentQuestion):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
