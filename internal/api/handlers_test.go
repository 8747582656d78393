package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StillwaterLabs/SteadyPath/internal/classify"
	"github.com/StillwaterLabs/SteadyPath/internal/content"
	"github.com/StillwaterLabs/SteadyPath/internal/flow"
	"github.com/StillwaterLabs/SteadyPath/internal/models"
	"github.com/StillwaterLabs/SteadyPath/internal/session"
	"github.com/StillwaterLabs/SteadyPath/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine := flow.NewEngine(flow.NewRegistry(), content.NewLibrary())
	router := classify.NewRouter(classify.NewIntentScorer(), classify.NewKeywordEmotion())
	sessions := session.NewRegistry(engine, router, session.WithStore(store.NewInMemoryStore()))
	return NewServer(sessions)
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func resultReply(t *testing.T, resp models.APIResponse) models.Reply {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to re-marshal result: %v", err)
	}
	var reply models.Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	return reply
}

func TestChatHandler(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := postJSON(t, h, "/chat", models.ChatRequest{UserID: "u1", Message: "I can't sleep, lying awake again"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if resp.Status != models.APIStatusOK {
		t.Fatalf("response status = %q", resp.Status)
	}
	reply := resultReply(t, resp)
	if reply.Scenario != models.ScenarioSleep {
		t.Errorf("routed scenario = %q, want sleep", reply.Scenario)
	}
	if reply.StepInfo.TotalSteps == 0 {
		t.Error("reply missing step info")
	}
}

func TestChatHandlerValidation(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name    string
		payload models.ChatRequest
	}{
		{name: "missing user", payload: models.ChatRequest{Message: "hi"}},
		{name: "missing message", payload: models.ChatRequest{UserID: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h, "/chat", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestChatHandlerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestChatHandlerCrisis(t *testing.T) {
	srv := newTestServer(t)
	w := postJSON(t, srv.Handler(), "/chat", models.ChatRequest{UserID: "u1", Message: "I want to kill myself"})
	if w.Code != http.StatusOK {
		t.Fatalf("crisis chat status = %d, want 200", w.Code)
	}
	reply := resultReply(t, decodeResponse(t, w))
	if reply.FlowType != models.FlowTypeCrisisOverride {
		t.Errorf("flow_type = %q, want crisis override", reply.FlowType)
	}
	if len(reply.CrisisResources) == 0 {
		t.Error("crisis reply must carry resources")
	}
}

func TestStartAndContinueSession(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := postJSON(t, h, "/sessions/start", models.StartFlowRequest{UserID: "u1", FlowName: "panic_flow"})
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}
	reply := resultReply(t, decodeResponse(t, w))
	if reply.Scenario != models.ScenarioPanic {
		t.Errorf("scenario = %q, want panic", reply.Scenario)
	}

	w = postJSON(t, h, "/sessions/continue", models.ContinueFlowRequest{UserID: "u1", Message: "yes I'm safe"})
	if w.Code != http.StatusOK {
		t.Fatalf("continue status = %d: %s", w.Code, w.Body.String())
	}
	reply = resultReply(t, decodeResponse(t, w))
	if reply.StepInfo.CurrentStep != 2 {
		t.Errorf("step after one turn = %d, want 2", reply.StepInfo.CurrentStep)
	}

	// Status reflects progress without advancing it.
	req := httptest.NewRequest(http.MethodGet, "/sessions/status?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}
}

func TestStartSessionUnknownFlow(t *testing.T) {
	srv := newTestServer(t)
	w := postJSON(t, srv.Handler(), "/sessions/start", models.StartFlowRequest{UserID: "u1", FlowName: "panic_attack_flow"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if resp.Status != models.APIStatusError {
		t.Errorf("response status = %q, want error", resp.Status)
	}
	reply := resultReply(t, resp)
	if len(reply.AvailableFlows) == 0 {
		t.Error("unknown flow response must list available flows")
	}
}

func TestEndSessionHandler(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	postJSON(t, h, "/sessions/start", models.StartFlowRequest{UserID: "u1", FlowName: "sleep"})
	w := postJSON(t, h, "/sessions/end", map[string]string{"user_id": "u1"})
	if w.Code != http.StatusOK {
		t.Fatalf("end status = %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, h, "/sessions/end", map[string]string{"user_id": "u1"})
	if w.Code != http.StatusNotFound {
		t.Errorf("second end status = %d, want 404", w.Code)
	}
}

func TestSessionStatusNotFound(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/sessions/status?user_id=ghost", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListFlowsHandler(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/flows", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeResponse(t, w)
	raw, _ := json.Marshal(resp.Result)
	var listing flowListing
	if err := json.Unmarshal(raw, &listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if len(listing.Scenarios) != 8 {
		t.Errorf("scenarios = %d, want 8", len(listing.Scenarios))
	}
	if len(listing.FlowNames) <= 8 {
		t.Error("flow names should include aliases")
	}
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if decodeResponse(t, w).Status != models.APIStatusOK {
		t.Error("health response not ok")
	}
}
