package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"prepmate/internal/service"
)

// PrepareHandler handles preparation package requests
type PrepareHandler struct {
	orchestrator *service.Orchestrator
}

// NewPrepareHandler creates a new preparation handler
func NewPrepareHandler(orchestrator *service.Orchestrator) *PrepareHandler {
	return &PrepareHandler{orchestrator: orchestrator}
}

// PrepareRequest is the request body for building a preparation package
type PrepareRequest struct {
	CompanyName    string `json:"company_name"`
	Position       string `json:"position"`
	JobDescription string `json:"job_description"`
	ForceRefresh   bool   `json:"force_refresh"`
}

// Prepare handles POST /v1/prepare
func (h *PrepareHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	var req PrepareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CompanyName == "" || req.Position == "" {
		writeError(w, http.StatusBadRequest, "company_name and position are required")
		return
	}

	pkg, err := h.orchestrator.PrepareForInterview(r.Context(), req.CompanyName, req.Position, req.JobDescription, req.ForceRefresh)
	if err != nil {
		// Degraded packages still carry usable content, so log and serve
		log.Printf("Preparation completed with errors: %v", err)
	}
	if pkg == nil {
		writeError(w, http.StatusInternalServerError, "failed to build preparation package")
		return
	}

	writeJSON(w, http.StatusOK, pkg)
}
