package feedback

import (
	"strings"
	"testing"
)

func TestAnalyzeGrammarTrigger(t *testing.T) {
	result := Analyze("Can you check my grammar: I are happy", false)

	if len(result.Corrections) != 1 {
		t.Fatalf("expected 1 correction, got %d", len(result.Corrections))
	}
	correction := result.Corrections[0]
	if correction.Original != "I are" {
		t.Errorf("unexpected original: %q", correction.Original)
	}
	if correction.Corrected != "I am" {
		t.Errorf("unexpected corrected: %q", correction.Corrected)
	}
	if correction.Rule != "Subject-verb agreement" {
		t.Errorf("unexpected rule: %q", correction.Rule)
	}
	if !strings.Contains(result.Content, "Grammar is fundamental") {
		t.Errorf("grammar mention not reflected in reply: %q", result.Content)
	}
}

func TestAnalyzeVocabularyTrigger(t *testing.T) {
	result := Analyze("Is 'good' the best word to use here?", false)

	if len(result.Vocabulary) != 1 {
		t.Fatalf("expected 1 vocabulary item, got %d", len(result.Vocabulary))
	}
	if result.Vocabulary[0].Word != "excellent" {
		t.Errorf("unexpected word: %q", result.Vocabulary[0].Word)
	}
	if len(result.Corrections) != 0 {
		t.Errorf("expected no corrections, got %d", len(result.Corrections))
	}
	if strings.Contains(result.Content, "Grammar is fundamental") {
		t.Errorf("reply should not mention grammar: %q", result.Content)
	}
}

func TestAnalyzeNoTriggers(t *testing.T) {
	result := Analyze("Please teach me something new", false)

	if len(result.Corrections) != 0 || len(result.Vocabulary) != 0 || result.Pronunciation != nil {
		t.Fatal("expected no annotations for trigger-free utterance")
	}
	if result.Content == "" {
		t.Fatal("expected a composed reply")
	}
}

func TestAnalyzePronunciationOnlyForVoice(t *testing.T) {
	typed := Analyze("How do I pronounce this word?", false)
	if typed.Pronunciation != nil {
		t.Fatal("typed utterance should not receive pronunciation feedback")
	}

	spoken := Analyze("How do I pronounce this word?", true)
	if spoken.Pronunciation == nil {
		t.Fatal("spoken utterance should receive pronunciation feedback")
	}
	if spoken.Pronunciation.Accuracy < 0 || spoken.Pronunciation.Accuracy > 1 {
		t.Errorf("accuracy outside 0..1: %f", spoken.Pronunciation.Accuracy)
	}
}
