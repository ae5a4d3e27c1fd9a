package main

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/spetersoncode/agui/events"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// anthropicAgent streams Claude responses as protocol events.
type anthropicAgent struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

func newAnthropicAgent(cfg *Config) *anthropicAgent {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey))
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicAgent{
		client:    &client,
		model:     model,
		maxTokens: int64(cfg.MaxTokens),
	}
}

func (a *anthropicAgent) Run(ctx context.Context, input events.RunAgentInput, emit func(events.Event) error) error {
	msgs, system := anthropicMessages(promptFromInput(input))
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if len(input.Tools) > 0 {
		params.Tools = anthropicTools(input.Tools)
	}

	stream := a.client.Messages.NewStreaming(ctx, params)

	messageID := events.GenerateMessageID()
	textOpen := false
	var acc anthropic.Message

	for stream.Next() {
		event := stream.Current()
		acc.Accumulate(event)

		if event.Type == "content_block_delta" {
			delta := event.AsContentBlockDelta()
			if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" && textDelta.Text != "" {
				if !textOpen {
					if err := emit(events.NewTextMessageStartEvent(messageID)); err != nil {
						return err
					}
					textOpen = true
				}
				if err := emit(events.NewTextMessageContentEvent(messageID, textDelta.Text)); err != nil {
					return err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}

	if textOpen {
		if err := emit(events.NewTextMessageEndEvent(messageID)); err != nil {
			return err
		}
	}

	for _, block := range acc.Content {
		if block.Type == "tool_use" {
			if err := emitToolCall(emit, messageID, block.ID, block.Name, string(block.Input)); err != nil {
				return err
			}
		}
	}
	return nil
}

func anthropicMessages(prompt []promptMessage) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range prompt {
		switch msg.Role {
		case events.RoleSystem, events.RoleDeveloper:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case events.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result, system
}

func anthropicTools(tools []events.Tool) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		var schema map[string]interface{}
		if len(t.Parameters) > 0 {
			json.Unmarshal(t.Parameters, &schema)
		}

		var required []string
		if reqVal, ok := schema["required"].([]interface{}); ok {
			for _, r := range reqVal {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
		}

		toolParam := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   required,
			},
		}
		result[i] = anthropic.ToolUnionParam{OfTool: &toolParam}
	}
	return result
}

var _ ChatAgent = (*anthropicAgent)(nil)
