package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linguavista/backend/internal/analysis/topic"
	model "github.com/linguavista/backend/internal/model/chat"
	chatservice "github.com/linguavista/backend/internal/service/chat"
	"github.com/linguavista/backend/internal/service/tutor"
)

func setupRouter() (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService()
	tutorSvc := tutor.NewService(chatSvc, topic.NewGate(), tutor.NewHeuristicGenerator(), nil, time.Second)
	handler := New(chatSvc, tutorSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func createSession(t *testing.T, r *chi.Mux) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session model.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session.ID
}

func TestTurnInDomain(t *testing.T) {
	r, _ := setupRouter()
	sessionID := createSession(t, r)

	body, _ := json.Marshal(map[string]string{"text": "Can you check my grammar: I are happy"})
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/turn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var turn tutor.Turn
	if err := json.Unmarshal(resp.Body.Bytes(), &turn); err != nil {
		t.Fatalf("decode turn: %v", err)
	}
	if turn.User == nil || turn.Assistant == nil {
		t.Fatal("expected both user and assistant messages")
	}
	if len(turn.Assistant.Corrections) != 1 {
		t.Fatalf("expected 1 correction, got %d", len(turn.Assistant.Corrections))
	}
}

func TestTurnEmptyUtterance(t *testing.T) {
	r, _ := setupRouter()
	sessionID := createSession(t, r)

	body := []byte(`{"text":"  "}`)
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/turn", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTurnUnknownSession(t *testing.T) {
	r, _ := setupRouter()

	body := []byte(`{"text":"help me learn"}`)
	req := httptest.NewRequest(http.MethodPost, "/session/missing/turn", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestUpdateStateMerges(t *testing.T) {
	r, _ := setupRouter()
	sessionID := createSession(t, r)

	for _, body := range []string{`{"isListening":true}`, `{"isMuted":true}`} {
		req := httptest.NewRequest(http.MethodPatch, "/session/"+sessionID+"/state", bytes.NewReader([]byte(body)))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+sessionID+"/state", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var state model.ConversationState
	if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if !state.IsListening || !state.IsMuted {
		t.Fatalf("state did not merge: %+v", state)
	}
}

func TestUpdateStateRejectsUnknownFocus(t *testing.T) {
	r, _ := setupRouter()
	sessionID := createSession(t, r)

	body := []byte(`{"learningFocus":"trivia"}`)
	req := httptest.NewRequest(http.MethodPatch, "/session/"+sessionID+"/state", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestResetClearsTranscript(t *testing.T) {
	r, _ := setupRouter()
	sessionID := createSession(t, r)

	body := []byte(`{"text":"help me practice"}`)
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/turn", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("turn failed: %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/reset", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("reset failed: %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/session/"+sessionID+"/transcript", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var payload struct {
		Messages []model.Message `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(payload.Messages) != 0 {
		t.Fatalf("expected empty transcript, got %d messages", len(payload.Messages))
	}
}
