package speech

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestMockTranscriberReturnsPhrase(t *testing.T) {
	transcriber := NewMockTranscriber("let me practice speaking")

	result, err := transcriber.Transcribe(context.Background(), &TranscribeRequest{
		SessionID: "s1",
		AudioData: bytes.NewReader([]byte("riff....")),
		Format:    "wav",
		Language:  "en-US",
	})
	if err != nil {
		t.Fatalf("Transcribe err: %v", err)
	}
	if result.Text != "let me practice speaking" {
		t.Errorf("unexpected text: %q", result.Text)
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		t.Errorf("confidence outside 0..1: %f", result.Confidence)
	}
}

func TestMockTranscriberDefaultPhrase(t *testing.T) {
	transcriber := NewMockTranscriber("")

	result, err := transcriber.Transcribe(context.Background(), &TranscribeRequest{
		AudioData: bytes.NewReader([]byte{1}),
	})
	if err != nil {
		t.Fatalf("Transcribe err: %v", err)
	}
	if result.Text != DefaultMockPhrase {
		t.Errorf("unexpected default phrase: %q", result.Text)
	}
}

func TestMockTranscriberSilence(t *testing.T) {
	transcriber := NewMockTranscriber("")

	cases := []*TranscribeRequest{
		nil,
		{AudioData: nil},
		{AudioData: bytes.NewReader(nil)},
	}
	for i, req := range cases {
		if _, err := transcriber.Transcribe(context.Background(), req); !errors.Is(err, ErrUnintelligible) {
			t.Errorf("case %d: expected ErrUnintelligible, got %v", i, err)
		}
	}
}

func TestMockTranscriberCancelledContext(t *testing.T) {
	transcriber := NewMockTranscriber("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := transcriber.Transcribe(ctx, &TranscribeRequest{
		AudioData: bytes.NewReader([]byte{1}),
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
