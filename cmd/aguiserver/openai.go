package main

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/spetersoncode/agui/events"
)

const defaultOpenAIModel = "gpt-4o"

// openaiAgent streams chat completions as protocol events.
type openaiAgent struct {
	client *openai.Client
	model  string
	cfg    *Config
}

func newOpenAIAgent(cfg *Config) *openaiAgent {
	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIKey))
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openaiAgent{client: &client, model: model, cfg: cfg}
}

func (a *openaiAgent) Run(ctx context.Context, input events.RunAgentInput, emit func(events.Event) error) error {
	params := openai.ChatCompletionNewParams{
		Model:    a.model,
		Messages: openaiMessages(promptFromInput(input)),
	}
	if a.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(a.cfg.MaxTokens))
	}
	if len(input.Tools) > 0 {
		params.Tools = openaiTools(input.Tools)
	}

	stream := a.client.Chat.Completions.NewStreaming(ctx, params)

	messageID := events.GenerateMessageID()
	textOpen := false
	var acc openai.ChatCompletionAccumulator

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if !textOpen {
				if err := emit(events.NewTextMessageStartEvent(messageID)); err != nil {
					return err
				}
				textOpen = true
			}
			if err := emit(events.NewTextMessageContentEvent(messageID, chunk.Choices[0].Delta.Content)); err != nil {
				return err
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

	if len(acc.Choices) > 0 {
		for _, tc := range acc.Choices[0].Message.ToolCalls {
			if err := emitToolCall(emit, messageID, tc.ID, tc.Function.Name, tc.Function.Arguments); err != nil {
				return err
			}
		}
	}
	return nil
}

func openaiMessages(prompt []promptMessage) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	for _, msg := range prompt {
		switch msg.Role {
		case events.RoleSystem, events.RoleDeveloper:
			result = append(result, openai.SystemMessage(msg.Content))
		case events.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func openaiTools(tools []events.Tool) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		var params shared.FunctionParameters
		if len(t.Parameters) > 0 {
			json.Unmarshal(t.Parameters, &params)
		}
		result[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  params,
			},
		}
	}
	return result
}

var _ ChatAgent = (*openaiAgent)(nil)
