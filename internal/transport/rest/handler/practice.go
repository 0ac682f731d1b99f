package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"prepmate/internal/service"
)

// PracticeHandler handles practice-mode endpoints
type PracticeHandler struct {
	orchestrator *service.Orchestrator
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(orchestrator *service.Orchestrator) *PracticeHandler {
	return &PracticeHandler{orchestrator: orchestrator}
}

// QuestionRequest is the request body for practicing a question
type QuestionRequest struct {
	Question string `json:"question"`
}

// Question handles POST /v1/practice/question
func (h *PracticeHandler) Question(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result := h.orchestrator.PracticeQuestion(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, result)
}

// FollowUp handles POST /v1/practice/follow-up
func (h *PracticeHandler) FollowUp(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := h.orchestrator.PracticeFollowUp(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSession):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNoPreviousQuestion):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Summary handles GET /v1/practice/summary
func (h *PracticeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orchestrator.PracticeSummary()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
