package protocol

import (
	"encoding/json"
	"time"
)

// Wire type tags for client-to-server actions.
const (
	TypeActionMessage    = "message"
	TypeActionTyping     = "typing"
	TypeActionRead       = "read"
	TypeActionCodeUpdate = "code_update"
	TypeActionCursorMove = "cursor_move"
)

// Action is an outbound envelope. Implementations are plain structs whose
// fields marshal directly to the wire shape.
type Action interface {
	ActionType() string
}

// MessageAction posts a chat message to the room.
type MessageAction struct {
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// TypingAction toggles the sender's typing indicator.
type TypingAction struct {
	Type      string `json:"type"`
	IsTyping  bool   `json:"is_typing"`
	Timestamp string `json:"timestamp"`
}

// ReadAction marks the room as read up to now.
type ReadAction struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// CodeUpdateAction replaces the shared document with the sender's full
// current text.
type CodeUpdateAction struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// CursorMoveAction reports the sender's cursor position.
type CursorMoveAction struct {
	Type      string         `json:"type"`
	Position  CursorPosition `json:"cursor_position"`
	Timestamp string         `json:"timestamp"`
}

// NewMessageAction builds a chat message action stamped with the current time.
func NewMessageAction(content string, metadata map[string]any) *MessageAction {
	return &MessageAction{
		Type:      TypeActionMessage,
		Content:   content,
		Metadata:  metadata,
		Timestamp: timestamp(),
	}
}

// NewTypingAction builds a typing indicator action.
func NewTypingAction(isTyping bool) *TypingAction {
	return &TypingAction{
		Type:      TypeActionTyping,
		IsTyping:  isTyping,
		Timestamp: timestamp(),
	}
}

// NewReadAction builds a read marker action.
func NewReadAction() *ReadAction {
	return &ReadAction{
		Type:      TypeActionRead,
		Timestamp: timestamp(),
	}
}

// NewCodeUpdateAction builds a whole-document code update action.
func NewCodeUpdateAction(content string) *CodeUpdateAction {
	return &CodeUpdateAction{
		Type:      TypeActionCodeUpdate,
		Content:   content,
		Timestamp: timestamp(),
	}
}

// NewCursorMoveAction builds a cursor position action.
func NewCursorMoveAction(line, column int) *CursorMoveAction {
	return &CursorMoveAction{
		Type:      TypeActionCursorMove,
		Position:  CursorPosition{Line: line, Column: column},
		Timestamp: timestamp(),
	}
}

func (a *MessageAction) ActionType() string    { return a.Type }
func (a *TypingAction) ActionType() string     { return a.Type }
func (a *ReadAction) ActionType() string       { return a.Type }
func (a *CodeUpdateAction) ActionType() string { return a.Type }
func (a *CursorMoveAction) ActionType() string { return a.Type }

// EncodeAction serializes an action to JSON bytes.
func EncodeAction(a Action) ([]byte, error) {
	return json.Marshal(a)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
