package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"prepmate/internal/model"
	"prepmate/internal/service"
)

// archiveListLimit bounds the archive listing response
const archiveListLimit = 20

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	orchestrator *service.Orchestrator
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(orchestrator *service.Orchestrator) *SessionHandler {
	return &SessionHandler{orchestrator: orchestrator}
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	JobDescription string              `json:"job_description"`
	CompanyName    string              `json:"company_name"`
	Position       string              `json:"position"`
	Mode           model.InterviewMode `json:"mode"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Mode == "" {
		req.Mode = model.ModePractice
	}
	switch req.Mode {
	case model.ModePreparation, model.ModePractice, model.ModeMockInterview:
	default:
		writeError(w, http.StatusBadRequest, "invalid mode")
		return
	}

	session := h.orchestrator.CreateSession(req.JobDescription, req.CompanyName, req.Position, req.Mode)
	writeJSON(w, http.StatusCreated, session)
}

// Context handles GET /v1/sessions/current
func (h *SessionHandler) Context(w http.ResponseWriter, r *http.Request) {
	sctx, err := h.orchestrator.SessionContext()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sctx)
}

// Export handles POST /v1/sessions/export
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	session, err := h.orchestrator.ExportSession(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Import handles POST /v1/sessions/import
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	var session model.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session snapshot")
		return
	}

	h.orchestrator.ImportSession(&session)
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// Archive handles GET /v1/sessions/archive
func (h *SessionHandler) Archive(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.orchestrator.ListArchivedSessions(r.Context(), archiveListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list archived sessions")
		return
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Restore handles POST /v1/sessions/archive/{sessionId}/restore
func (h *SessionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	session, err := h.orchestrator.RestoreSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrArchiveNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Clear handles DELETE /v1/sessions/current
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.ClearSession()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
