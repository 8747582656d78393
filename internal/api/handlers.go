// Package api provides HTTP handlers for SteadyPath endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

// flowListing is the payload served by the /flows endpoint.
type flowListing struct {
	Scenarios []models.ScenarioID `json:"scenarios"`
	FlowNames []string            `json:"flow_names"`
}

// historyPayload is the payload served by the /sessions/history endpoint.
type historyPayload struct {
	Outcomes []models.Outcome `json:"outcomes"`
	Stats    models.UserStats `json:"stats"`
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.chatHandler: processing chat request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.chatHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.chatHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	reply, err := s.sessions.Chat(r.Context(), req.UserID, req.Message)
	if err != nil {
		slog.Error("Server.chatHandler: chat processing failed", "error", err, "userID", req.UserID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process message"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(reply))
}

func (s *Server) startSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.startSessionHandler: processing start request", "method", r.Method)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req models.StartFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.startSessionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.startSessionHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	reply, err := s.sessions.StartFlow(r.Context(), req.UserID, req.FlowName, req.Context)
	if err != nil {
		if errors.Is(err, models.ErrUnknownScenario) {
			// Recoverable: the reply carries available and suggested flows.
			resp := models.NewAPIResponseBuilder().
				WithStatus(models.APIStatusError).
				WithMessage("unknown flow name").
				WithResult(reply).
				Build()
			writeJSONResponse(w, http.StatusNotFound, resp)
			return
		}
		slog.Error("Server.startSessionHandler: start failed", "error", err, "userID", req.UserID, "flowName", req.FlowName)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to start flow"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(reply))
}

func (s *Server) continueSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.continueSessionHandler: processing continue request", "method", r.Method)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req models.ContinueFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.continueSessionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.continueSessionHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	reply, err := s.sessions.ContinueFlow(r.Context(), req.UserID, req.Message)
	if err != nil {
		slog.Error("Server.continueSessionHandler: continue failed", "error", err, "userID", req.UserID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process message"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(reply))
}

func (s *Server) sessionStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrEmptyUserID.Error()))
		return
	}

	status, err := s.sessions.Status(userID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveFlow) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("no active session"))
			return
		}
		slog.Error("Server.sessionStatusHandler: status lookup failed", "error", err, "userID", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch status"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(status))
}

func (s *Server) endSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.endSessionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.UserID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrEmptyUserID.Error()))
		return
	}

	outcome, err := s.sessions.EndSession(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveFlow) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("no active session"))
			return
		}
		slog.Error("Server.endSessionHandler: end failed", "error", err, "userID", req.UserID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to end session"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(outcome))
}

func (s *Server) sessionHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrEmptyUserID.Error()))
		return
	}

	outcomes, err := s.sessions.History(r.Context(), userID)
	if err != nil {
		slog.Error("Server.sessionHistoryHandler: history lookup failed", "error", err, "userID", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch history"))
		return
	}
	payload := historyPayload{
		Outcomes: outcomes,
		Stats:    models.ComputeUserStats(outcomes),
	}
	writeJSONResponse(w, http.StatusOK, models.Success(payload))
}

func (s *Server) listFlowsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	listing := flowListing{
		Scenarios: models.Scenarios(),
		FlowNames: models.KnownFlowNames(),
	}
	writeJSONResponse(w, http.StatusOK, models.Success(listing))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("healthy", map[string]int{
		"active_sessions": s.sessions.ActiveCount(),
	}))
}
