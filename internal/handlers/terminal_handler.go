package handlers

import (
	"encoding/json"
	"net/http"

	"project-editor/backend/internal/terminal"
)

type terminalRequest struct {
	Command *string `json:"command"`
}

// RunTerminalCommand handles POST /terminal. Commands are never executed;
// the response is a canned simulation of the shell output.
func (h *Handler) RunTerminalCommand(w http.ResponseWriter, r *http.Request) {
	var req terminalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Command == nil {
		respondError(w, http.StatusBadRequest, "Command is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"output": terminal.Simulate(*req.Command)})
}
