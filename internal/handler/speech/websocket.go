package speech

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/linguavista/backend/internal/model/chat"
	"github.com/linguavista/backend/internal/service/speech"
	"github.com/linguavista/backend/internal/service/tutor"
)

// WebSocketHandler runs realtime voice turns over a websocket: the client
// pushes captured audio or already-typed utterances, the server answers
// with the transcript delta for each turn.
type WebSocketHandler struct {
	transcriber speech.Transcriber
	tutorSvc    *tutor.Service
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler creates the websocket voice handler.
func NewWebSocketHandler(transcriber speech.Transcriber, tutorSvc *tutor.Service) *WebSocketHandler {
	return &WebSocketHandler{
		transcriber: transcriber,
		tutorSvc:    tutorSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes wires the websocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundFrame struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	AudioData []byte `json:"audioData,omitempty"`
	Format    string `json:"format,omitempty"`
	Language  string `json:"language,omitempty"`
}

type outboundFrame struct {
	Type      string             `json:"type"`
	SessionID string             `json:"sessionId,omitempty"`
	Text      string             `json:"text,omitempty"`
	Message   *chat.Message      `json:"message,omitempty"`
	Error     string             `json:"error,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

// handleWebSocket upgrades the connection and serves voice turns until
// the client goes away.
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new voice connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, outboundFrame{Type: "connected", SessionID: sessionID})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var frame inboundFrame
			if err := conn.ReadJSON(&frame); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			h.handleFrame(ctx, conn, sessionID, &frame)
		}
	}
}

func (h *WebSocketHandler) handleFrame(ctx context.Context, conn *websocket.Conn, sessionID string, frame *inboundFrame) {
	switch frame.Type {
	case "utterance":
		h.runTurn(ctx, conn, sessionID, frame.Text, chat.ModalityText)
	case "audio":
		text, err := h.transcribe(ctx, sessionID, frame)
		if err != nil {
			h.sendError(conn, sessionID, err.Error())
			return
		}
		h.send(conn, outboundFrame{Type: "transcript", SessionID: sessionID, Text: text})
		h.runTurn(ctx, conn, sessionID, text, chat.ModalityVoice)
	case "ping":
		h.send(conn, outboundFrame{Type: "pong", SessionID: sessionID})
	default:
		h.sendError(conn, sessionID, "unknown frame type: "+frame.Type)
	}
}

func (h *WebSocketHandler) transcribe(ctx context.Context, sessionID string, frame *inboundFrame) (string, error) {
	language := frame.Language
	if language == "" {
		language = "en-US"
	}

	result, err := h.transcriber.Transcribe(ctx, &speech.TranscribeRequest{
		SessionID: sessionID,
		AudioData: bytes.NewReader(frame.AudioData),
		Format:    frame.Format,
		Language:  language,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

func (h *WebSocketHandler) runTurn(ctx context.Context, conn *websocket.Conn, sessionID, text string, modality chat.Modality) {
	turn, err := h.tutorSvc.SubmitUtterance(ctx, sessionID, text, modality)
	if turn.User != nil {
		h.send(conn, outboundFrame{Type: "user", SessionID: sessionID, Message: turn.User})
	}
	if err != nil {
		if errors.Is(err, tutor.ErrGeneration) || errors.Is(err, tutor.ErrTurnDiscarded) {
			h.sendError(conn, sessionID, "assistant turn failed: "+err.Error())
		} else {
			h.sendError(conn, sessionID, err.Error())
		}
		return
	}
	h.send(conn, outboundFrame{Type: "assistant", SessionID: sessionID, Message: turn.Assistant})
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, frame outboundFrame) {
	frame.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[websocket] write error: %v", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: message})
}
