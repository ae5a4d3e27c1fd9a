package events

import (
	"encoding/json"
	"fmt"
)

// Role identifies the author of a message.
type Role string

// Message roles recognized by the protocol.
const (
	RoleDeveloper Role = "developer"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleTool      Role = "tool"
	RoleActivity  Role = "activity"
	RoleReasoning Role = "reasoning"
)

// Function describes the function invoked by a tool call. Arguments is a
// JSON string accumulated from streamed deltas in arrival order.
type Function struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall describes one tool invocation requested by an assistant message.
type ToolCall struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Function       Function `json:"function"`
	EncryptedValue string   `json:"encryptedValue,omitempty"`
}

// InputContentType discriminates multimodal user content fragments.
type InputContentType string

const (
	// InputContentTypeText is a plain text fragment.
	InputContentTypeText InputContentType = "text"

	// InputContentTypeBinary is a binary fragment carried by reference,
	// URL, or inline base64 data.
	InputContentTypeBinary InputContentType = "binary"
)

// InputContent is one fragment of multimodal user message content.
type InputContent struct {
	Type     InputContentType `json:"type"`
	Text     string           `json:"text,omitempty"`
	MimeType string           `json:"mimeType,omitempty"`
	ID       string           `json:"id,omitempty"`
	URL      string           `json:"url,omitempty"`
	Data     string           `json:"data,omitempty"`
}

func validateInputContent(c InputContent) error {
	switch c.Type {
	case InputContentTypeText:
		if c.Text == "" {
			return fmt.Errorf("text content fragment requires text")
		}
	case InputContentTypeBinary:
		if c.MimeType == "" {
			return fmt.Errorf("binary content fragment requires mimeType")
		}
		if c.ID == "" && c.URL == "" && c.Data == "" {
			return fmt.Errorf("binary content fragment requires one of id, url, or data")
		}
	default:
		return fmt.Errorf("unknown content fragment type %q", c.Type)
	}
	return nil
}

// Message is one entry in a conversation. Content is polymorphic: a string
// for most roles, an ordered fragment list for multimodal user messages, or
// a structured object for activity messages.
type Message struct {
	ID             string     `json:"id"`
	Role           Role       `json:"role"`
	Content        any        `json:"content,omitempty"`
	Name           string     `json:"name,omitempty"`
	ToolCalls      []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID     string     `json:"toolCallId,omitempty"`
	Error          string     `json:"error,omitempty"`
	ActivityType   string     `json:"activityType,omitempty"`
	EncryptedValue string     `json:"encryptedValue,omitempty"`
}

// ContentString returns the message content as a string. The second return
// is false when the content is absent or not textual.
func (m Message) ContentString() (string, bool) {
	s, ok := m.Content.(string)
	return s, ok
}

// ContentParts returns the message content as multimodal input fragments.
// The second return is false when the content is not a fragment list.
func (m Message) ContentParts() ([]InputContent, bool) {
	parts, ok := m.Content.([]InputContent)
	return parts, ok
}

// ContentActivity returns the message content as a structured activity
// object. The second return is false when the content is not an object.
func (m Message) ContentActivity() (map[string]any, bool) {
	obj, ok := m.Content.(map[string]any)
	return obj, ok
}

// Validate reports whether the message satisfies the protocol's per-role
// content rules.
func (m Message) Validate() error {
	return validateMessage(m)
}

func validateMessage(m Message) error {
	if m.ID == "" {
		return fmt.Errorf("message requires an id")
	}
	if m.Role != RoleActivity && m.ActivityType != "" {
		return fmt.Errorf("message %s: activityType is only valid on activity messages", m.ID)
	}

	switch m.Role {
	case RoleActivity:
		if m.ActivityType == "" {
			return fmt.Errorf("activity message %s requires activityType", m.ID)
		}
		if _, ok := m.ContentActivity(); !ok {
			return fmt.Errorf("activity message %s requires object content", m.ID)
		}
	case RoleUser:
		switch c := m.Content.(type) {
		case string:
		case []InputContent:
			for i, part := range c {
				if err := validateInputContent(part); err != nil {
					return fmt.Errorf("user message %s content[%d]: %w", m.ID, i, err)
				}
			}
		default:
			return fmt.Errorf("user message %s: content must be a string or input fragments", m.ID)
		}
	case RoleAssistant, RoleReasoning:
		if m.Content != nil {
			if _, ok := m.ContentString(); !ok {
				return fmt.Errorf("%s message %s: content must be a string", m.Role, m.ID)
			}
		}
	case RoleTool:
		if m.ToolCallID == "" {
			return fmt.Errorf("tool message %s requires toolCallId", m.ID)
		}
		if _, ok := m.ContentString(); !ok {
			return fmt.Errorf("tool message %s: content must be a string", m.ID)
		}
	case RoleSystem, RoleDeveloper:
		if _, ok := m.ContentString(); !ok {
			return fmt.Errorf("%s message %s: content must be a string", m.Role, m.ID)
		}
	default:
		return fmt.Errorf("message %s: unknown role %q", m.ID, m.Role)
	}
	return nil
}

// UnmarshalJSON decodes a message, normalizing polymorphic content: JSON
// strings stay strings, arrays become []InputContent, and objects become
// map[string]any.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var raw struct {
		alias
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Message(raw.alias)
	m.Content = nil

	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}
	switch raw.Content[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw.Content, &s); err != nil {
			return err
		}
		m.Content = s
	case '[':
		var parts []InputContent
		if err := json.Unmarshal(raw.Content, &parts); err != nil {
			return err
		}
		m.Content = parts
	default:
		var obj map[string]any
		if err := json.Unmarshal(raw.Content, &obj); err != nil {
			return err
		}
		m.Content = obj
	}
	return nil
}
