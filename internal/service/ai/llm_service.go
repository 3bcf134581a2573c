package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/linguavista/backend/internal/analysis/feedback"
	"github.com/linguavista/backend/internal/config"
	"github.com/linguavista/backend/internal/model/chat"
	"github.com/linguavista/backend/internal/service/tutor"
)

// Service generates tutor replies through a configured chat model. It
// implements tutor.Generator; the model is asked for a JSON object that
// maps directly onto the annotation fields.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the language-model generator from configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile tutor chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Generate implements tutor.Generator.
func (s *Service) Generate(ctx context.Context, utterance string, turn tutor.TurnContext) (*feedback.Result, error) {
	input := map[string]any{
		"system":  buildSystemPrompt(turn),
		"history": buildHistoryMessages(turn.History),
		"query":   utterance,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run tutor chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return nil, fmt.Errorf("empty model response")
	}

	result, err := parseGeneratorOutput(response.Content)
	if err != nil {
		// The reply text is still usable when the model ignored the JSON
		// contract; only the annotations are lost.
		log.Printf("[ai] annotation parse failed session=%s: %v", turn.SessionID, err)
		return &feedback.Result{Content: strings.TrimSpace(response.Content)}, nil
	}

	log.Printf("[ai] generated reply session=%s corrections=%d vocabulary=%d",
		turn.SessionID, len(result.Corrections), len(result.Vocabulary))
	return result, nil
}

// buildSystemPrompt assembles the tutor instruction, steered by the
// session's learning focus and topic.
func buildSystemPrompt(turn tutor.TurnContext) string {
	var builder strings.Builder
	builder.WriteString(generatorSystemPrompt)
	builder.WriteString("\nCurrent learning focus: ")
	builder.WriteString(string(turn.Focus))
	if topic := strings.TrimSpace(turn.Topic); topic != "" {
		builder.WriteString("\nCurrent conversation topic: ")
		builder.WriteString(topic)
	}
	if turn.Spoken {
		builder.WriteString("\nThe learner spoke this turn aloud; include pronunciation feedback when a word clearly needs it.")
	}
	return builder.String()
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	const historyLimit = 10

	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.SenderAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}

// parseGeneratorOutput extracts the JSON object from the model reply and
// normalises the pronunciation accuracy to the 0..1 range.
func parseGeneratorOutput(content string) (*feedback.Result, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	result := &feedback.Result{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil, fmt.Errorf("missing content field")
	}

	if result.Pronunciation != nil {
		if result.Pronunciation.Accuracy > 1 {
			result.Pronunciation.Accuracy /= 100
		}
		if result.Pronunciation.Accuracy < 0 {
			result.Pronunciation.Accuracy = 0
		}
		if result.Pronunciation.Accuracy > 1 {
			result.Pronunciation.Accuracy = 1
		}
	}

	return result, nil
}

const generatorSystemPrompt = "You are LinguaVista, a professional English tutor. Answer the learner's question helpfully and concisely.\n" +
	"Return only a JSON object with these fields: content (your reply text), " +
	"corrections (array of {original, corrected, explanation, rule} for grammar mistakes in the learner's utterance, omit when none), " +
	"vocabulary (array of {word, definition, example, difficulty} suggesting stronger word choices, difficulty one of beginner/intermediate/advanced, omit when none), " +
	"pronunciation ({word, accuracy, suggestions, phonetic} with accuracy between 0 and 1, omit unless clearly relevant). " +
	"Do not output anything outside the JSON object."
