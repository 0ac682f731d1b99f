package handler

import (
	"encoding/json"
	"net/http"

	"prepmate/internal/model"
	"prepmate/internal/service"
)

// ProfileHandler handles candidate background document uploads
type ProfileHandler struct {
	orchestrator *service.Orchestrator
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(orchestrator *service.Orchestrator) *ProfileHandler {
	return &ProfileHandler{orchestrator: orchestrator}
}

// AddDocumentRequest is the request body for adding a profile document
type AddDocumentRequest struct {
	Kind     string            `json:"kind"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AddDocument handles POST /v1/profile/documents
func (h *ProfileHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var req AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	kind := model.ProfileKind(req.Kind)
	switch kind {
	case model.ProfileKindCV, model.ProfileKindExperience, model.ProfileKindPersonality:
	default:
		writeError(w, http.StatusBadRequest, "kind must be cv, experience, or personality")
		return
	}

	doc, err := h.orchestrator.AddProfileDocument(r.Context(), kind, req.Text, req.Metadata)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}
