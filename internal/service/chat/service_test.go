package chat_test

import (
	"context"
	"testing"

	model "github.com/linguavista/backend/internal/model/chat"
	chat "github.com/linguavista/backend/internal/service/chat"
)

func TestAppendAssignsIDAndOrder(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		msg, err := svc.AppendMessage(ctx, model.Message{
			SessionID: session.ID,
			Sender:    model.SenderUser,
			Content:   c,
			Modality:  model.ModalityText,
		})
		if err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
		if msg.ID == "" {
			t.Fatal("expected assigned message ID")
		}
		if msg.CreatedAt.IsZero() {
			t.Fatal("expected assigned timestamp")
		}
	}

	transcript, err := svc.Transcript(ctx, session.ID)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(transcript) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(transcript))
	}
	for i, msg := range transcript {
		if msg.Content != contents[i] {
			t.Errorf("message %d out of order: got %q", i, msg.Content)
		}
		if i > 0 && msg.CreatedAt.Before(transcript[i-1].CreatedAt) {
			t.Errorf("timestamp regressed at index %d", i)
		}
	}
}

func TestAppendRejectsUnknownSession(t *testing.T) {
	svc := chat.NewService()

	_, err := svc.AppendMessage(context.Background(), model.Message{
		SessionID: "missing",
		Sender:    model.SenderUser,
		Content:   "hello",
		Modality:  model.ModalityText,
	})
	if err != chat.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAppendRejectsInvalidEnums(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	if _, err := svc.AppendMessage(ctx, model.Message{
		SessionID: session.ID,
		Sender:    model.Sender("robot"),
		Modality:  model.ModalityText,
	}); err != chat.ErrInvalidSender {
		t.Fatalf("expected ErrInvalidSender, got %v", err)
	}

	if _, err := svc.AppendMessage(ctx, model.Message{
		SessionID: session.ID,
		Sender:    model.SenderUser,
		Modality:  model.Modality("telepathy"),
	}); err != chat.ErrInvalidModality {
		t.Fatalf("expected ErrInvalidModality, got %v", err)
	}
}

func TestTranscriptReturnsCopy(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	if _, err := svc.AppendMessage(ctx, model.Message{
		SessionID: session.ID,
		Sender:    model.SenderUser,
		Content:   "original",
		Modality:  model.ModalityText,
	}); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}

	first, _ := svc.Transcript(ctx, session.ID)
	first[0].Content = "mutated"

	second, _ := svc.Transcript(ctx, session.ID)
	if second[0].Content != "original" {
		t.Fatal("transcript exposed internal storage")
	}
}

func TestStateMergePerField(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	listening := true
	if _, err := svc.UpdateState(ctx, session.ID, model.StateUpdate{IsListening: &listening}); err != nil {
		t.Fatalf("UpdateState err: %v", err)
	}

	muted := true
	state, err := svc.UpdateState(ctx, session.ID, model.StateUpdate{IsMuted: &muted})
	if err != nil {
		t.Fatalf("UpdateState err: %v", err)
	}

	if !state.IsListening || !state.IsMuted {
		t.Fatalf("fields did not merge: %+v", state)
	}
	if state.CurrentTopic != "general" || state.LearningFocus != model.FocusConversation {
		t.Fatalf("untouched fields changed: %+v", state)
	}
}

func TestResetIdempotent(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx)

	fullscreen := true
	svc.UpdateState(ctx, session.ID, model.StateUpdate{IsFullscreen: &fullscreen})
	svc.AppendMessage(ctx, model.Message{
		SessionID: session.ID,
		Sender:    model.SenderUser,
		Content:   "hello",
		Modality:  model.ModalityText,
	})

	for i := 0; i < 2; i++ {
		if err := svc.Reset(ctx, session.ID); err != nil {
			t.Fatalf("Reset #%d err: %v", i+1, err)
		}

		transcript, _ := svc.Transcript(ctx, session.ID)
		if len(transcript) != 0 {
			t.Fatalf("expected empty transcript after reset, got %d", len(transcript))
		}
		state, _ := svc.State(ctx, session.ID)
		if state != model.DefaultState() {
			t.Fatalf("expected default state after reset, got %+v", state)
		}
	}
}
