package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMarshalUnmarshal_Text(t *testing.T) {
	msg := Message{
		ID:      "msg-1",
		Role:    RoleUser,
		Content: "hello",
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "msg-1", decoded.ID)
	assert.Equal(t, "user", string(decoded.Role))
	content, ok := decoded.ContentString()
	require.True(t, ok)
	assert.Equal(t, "hello", content)
	assert.Empty(t, decoded.ActivityType)
}

func TestMessageMarshalUnmarshal_Activity(t *testing.T) {
	msg := Message{
		ID:           "activity-1",
		Role:         RoleActivity,
		ActivityType: "PLAN",
		Content:      map[string]any{"status": "working"},
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "activity-1", decoded.ID)
	assert.Equal(t, "activity", string(decoded.Role))
	assert.Equal(t, "PLAN", decoded.ActivityType)
	_, ok := decoded.ContentString()
	assert.False(t, ok)

	content, ok := decoded.ContentActivity()
	require.True(t, ok)
	assert.Equal(t, "working", content["status"])
}

func TestMessageUnmarshal_MultimodalContent(t *testing.T) {
	data := []byte(`{
		"id": "msg-1",
		"role": "user",
		"content": [
			{"type": "text", "text": "look at this"},
			{"type": "binary", "mimeType": "image/png", "url": "https://example.com/test.png"}
		]
	}`)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))

	parts, ok := decoded.ContentParts()
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, InputContentTypeText, parts[0].Type)
	assert.Equal(t, "look at this", parts[0].Text)
	assert.Equal(t, InputContentTypeBinary, parts[1].Type)
	assert.Equal(t, "image/png", parts[1].MimeType)
}

func TestValidateMessage_NonActivityRejectsActivityFields(t *testing.T) {
	msg := Message{
		ID:           "msg-1",
		Role:         RoleUser,
		Content:      "hello",
		ActivityType: "PLAN",
	}

	err := validateMessage(msg)
	assert.Error(t, err)
}

func TestValidateMessage_ActivityRequiresFields(t *testing.T) {
	msg := Message{
		ID:   "activity-1",
		Role: RoleActivity,
	}

	err := validateMessage(msg)
	assert.Error(t, err)

	msg.ActivityType = "PLAN"
	err = validateMessage(msg)
	assert.Error(t, err)

	msg.Content = map[string]any{"status": "draft"}
	err = validateMessage(msg)
	assert.NoError(t, err)

	msg.Content = "not-an-object"
	err = validateMessage(msg)
	assert.Error(t, err)
}

func TestValidateMessage_UserAllowsTextOrMultimodal(t *testing.T) {
	msg := Message{
		ID:      "msg-1",
		Role:    RoleUser,
		Content: "hello",
	}

	assert.NoError(t, validateMessage(msg))

	msg.Content = []InputContent{
		{Type: InputContentTypeText, Text: "hi"},
		{Type: InputContentTypeBinary, MimeType: "image/png", URL: "https://example.com/test.png"},
	}
	assert.NoError(t, validateMessage(msg))

	msg.Content = map[string]any{"unexpected": true}
	assert.Error(t, validateMessage(msg))
}

func TestValidateMessage_BinaryFragmentNeedsLocation(t *testing.T) {
	msg := Message{
		ID:   "msg-1",
		Role: RoleUser,
		Content: []InputContent{
			{Type: InputContentTypeBinary, MimeType: "application/pdf"},
		},
	}
	assert.Error(t, validateMessage(msg))

	content := msg.Content.([]InputContent)
	content[0].Data = "aGVsbG8="
	assert.NoError(t, validateMessage(msg))
}

func TestValidateMessage_AssistantContentMustBeStringWhenPresent(t *testing.T) {
	msg := Message{
		ID:      "msg-1",
		Role:    RoleAssistant,
		Content: map[string]any{"unexpected": true},
	}
	assert.Error(t, validateMessage(msg))

	msg.Content = "ok"
	assert.NoError(t, validateMessage(msg))
}

func TestValidateMessage_ToolRequiresToolCallIDAndStringContent(t *testing.T) {
	msg := Message{
		ID:      "msg-1",
		Role:    RoleTool,
		Content: "ok",
	}
	assert.Error(t, validateMessage(msg))

	msg.ToolCallID = "tool-1"
	assert.NoError(t, validateMessage(msg))

	msg.Content = map[string]any{"unexpected": true}
	assert.Error(t, validateMessage(msg))
}

func TestMessageMarshalJSON_IncludesOptionalFields_Assistant(t *testing.T) {
	msg := Message{
		ID:      "msg-1",
		Role:    RoleAssistant,
		Content: "hello",
		Name:    "bob",
		ToolCalls: []ToolCall{
			{
				ID:   "tool-1",
				Type: "function",
				Function: Function{
					Name:      "f",
					Arguments: "{}",
				},
			},
		},
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "msg-1", decoded["id"])
	assert.Equal(t, "assistant", decoded["role"])
	assert.Equal(t, "hello", decoded["content"])
	assert.Equal(t, "bob", decoded["name"])
	toolCalls, ok := decoded["toolCalls"].([]any)
	require.True(t, ok)
	assert.Len(t, toolCalls, 1)
}

func TestMessageMarshalJSON_IncludesOptionalFields_Tool(t *testing.T) {
	msg := Message{
		ID:         "msg-1",
		Role:       RoleTool,
		Content:    "ok",
		ToolCallID: "tool-123",
		Error:      "boom",
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "msg-1", decoded["id"])
	assert.Equal(t, "tool", decoded["role"])
	assert.Equal(t, "ok", decoded["content"])
	assert.Equal(t, "tool-123", decoded["toolCallId"])
	assert.Equal(t, "boom", decoded["error"])
}
