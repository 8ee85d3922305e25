package protocol

import (
	"encoding/json"
	"fmt"
)

// Wire type tags for server-to-client frames.
const (
	TypeNewMessage     = "new_message"
	TypeUserTyping     = "user_typing"
	TypeUserJoined     = "user_joined"
	TypeUserLeft       = "user_left"
	TypeMessageDeleted = "message_deleted"
	TypeCodeUpdate     = "code_update"
	TypeCursorMove     = "cursor_move"
)

// Kind identifies a frame variant. The set is closed: frames carrying a type
// tag outside it decode as KindUnknown.
type Kind int

const (
	// KindUnknown is the fallback for unrecognized type tags.
	KindUnknown Kind = iota
	// KindNewMessage is a chat message delivered to the room.
	KindNewMessage
	// KindUserTyping is a typing indicator change.
	KindUserTyping
	// KindUserJoined announces a participant joining the room.
	KindUserJoined
	// KindUserLeft announces a participant leaving the room.
	KindUserLeft
	// KindMessageDeleted announces a soft-deleted chat message.
	KindMessageDeleted
	// KindCodeUpdate carries the full document text of a collaborative session.
	KindCodeUpdate
	// KindCursorMove carries a participant's cursor position.
	KindCursorMove

	// KindAny is a registration wildcard: handlers registered under it receive
	// every frame. No frame ever reports KindAny from its Kind method.
	KindAny Kind = -1
)

// String returns the wire type tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindNewMessage:
		return TypeNewMessage
	case KindUserTyping:
		return TypeUserTyping
	case KindUserJoined:
		return TypeUserJoined
	case KindUserLeft:
		return TypeUserLeft
	case KindMessageDeleted:
		return TypeMessageDeleted
	case KindCodeUpdate:
		return TypeCodeUpdate
	case KindCursorMove:
		return TypeCursorMove
	case KindAny:
		return "*"
	default:
		return "unknown"
	}
}

// Frame is an inbound envelope decoded from the transport.
type Frame interface {
	Kind() Kind
	isFrame()
}

// CursorPosition is a line/column pair in the shared document.
type CursorPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NewMessage is a chat message broadcast to the room, including the sender's
// own echo.
type NewMessage struct {
	MessageID   string         `json:"message_id"`
	RoomID      string         `json:"room_id"`
	SenderID    string         `json:"sender_id"`
	Content     string         `json:"content"`
	MessageType string         `json:"message_type,omitempty"`
	CreatedAt   string         `json:"created_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// UserTyping is a typing indicator for a room participant.
type UserTyping struct {
	UserID   string `json:"user_id"`
	RoomID   string `json:"room_id"`
	IsTyping bool   `json:"is_typing"`
}

// UserJoined announces a participant joining the room.
type UserJoined struct {
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	Timestamp string `json:"timestamp,omitempty"`
}

// UserLeft announces a participant leaving the room.
type UserLeft struct {
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MessageDeleted announces that a chat message was deleted.
type MessageDeleted struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

// CodeUpdate carries the entire current document text of a collaborative
// session. Replication is last-writer-wins: there is no diff or merge.
type CodeUpdate struct {
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// CursorMove carries another participant's cursor position.
type CursorMove struct {
	UserID    string         `json:"user_id"`
	Position  CursorPosition `json:"cursor_position"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Unknown preserves a frame whose type tag is not part of the known set.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (*NewMessage) Kind() Kind     { return KindNewMessage }
func (*UserTyping) Kind() Kind     { return KindUserTyping }
func (*UserJoined) Kind() Kind     { return KindUserJoined }
func (*UserLeft) Kind() Kind       { return KindUserLeft }
func (*MessageDeleted) Kind() Kind { return KindMessageDeleted }
func (*CodeUpdate) Kind() Kind     { return KindCodeUpdate }
func (*CursorMove) Kind() Kind     { return KindCursorMove }
func (*Unknown) Kind() Kind        { return KindUnknown }

func (*NewMessage) isFrame()     {}
func (*UserTyping) isFrame()     {}
func (*UserJoined) isFrame()     {}
func (*UserLeft) isFrame()       {}
func (*MessageDeleted) isFrame() {}
func (*CodeUpdate) isFrame()     {}
func (*CursorMove) isFrame()     {}
func (*Unknown) isFrame()        {}

// DecodeFrame deserializes an inbound frame. Malformed JSON is an error and
// the caller drops the frame; an unrecognized type tag is not an error and
// yields *Unknown with the raw payload attached.
func DecodeFrame(data []byte) (Frame, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	var frame Frame
	switch env.Type {
	case TypeNewMessage:
		frame = &NewMessage{}
	case TypeUserTyping:
		frame = &UserTyping{}
	case TypeUserJoined:
		frame = &UserJoined{}
	case TypeUserLeft:
		frame = &UserLeft{}
	case TypeMessageDeleted:
		frame = &MessageDeleted{}
	case TypeCodeUpdate:
		frame = &CodeUpdate{}
	case TypeCursorMove:
		frame = &CursorMove{}
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return &Unknown{Type: env.Type, Raw: raw}, nil
	}

	if err := json.Unmarshal(data, frame); err != nil {
		return nil, fmt.Errorf("malformed %s frame: %w", env.Type, err)
	}
	return frame, nil
}
