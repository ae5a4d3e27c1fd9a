package main

import (
	"context"

	"google.golang.org/genai"

	"github.com/spetersoncode/agui/events"
)

const defaultGoogleModel = "gemini-2.0-flash"

// googleAgent streams Gemini responses as protocol events.
type googleAgent struct {
	client *genai.Client
	model  string
	cfg    *Config
}

func newGoogleAgent(ctx context.Context, cfg *Config) (*googleAgent, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GoogleKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = defaultGoogleModel
	}
	return &googleAgent{client: client, model: model, cfg: cfg}, nil
}

func (a *googleAgent) Run(ctx context.Context, input events.RunAgentInput, emit func(events.Event) error) error {
	contents := googleContents(promptFromInput(input))
	config := &genai.GenerateContentConfig{}
	if a.cfg.MaxTokens > 0 {
		config.MaxOutputTokens = int32(a.cfg.MaxTokens)
	}

	messageID := events.GenerateMessageID()
	textOpen := false

	for resp := range a.client.Models.GenerateContentStream(ctx, a.model, contents, config) {
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			if !textOpen {
				if err := emit(events.NewTextMessageStartEvent(messageID)); err != nil {
					return err
				}
				textOpen = true
			}
			if err := emit(events.NewTextMessageContentEvent(messageID, part.Text)); err != nil {
				return err
			}
		}
	}

	if textOpen {
		return emit(events.NewTextMessageEndEvent(messageID))
	}
	return nil
}

func googleContents(prompt []promptMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range prompt {
		role := "user"
		if msg.Role == events.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents
}

var _ ChatAgent = (*googleAgent)(nil)
