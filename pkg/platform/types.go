package platform

import "github.com/google/uuid"

// Room is a chat room.
type Room struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name,omitempty"`
	RoomType        string         `json:"room_type"`
	CourseID        *uuid.UUID     `json:"course_id,omitempty"`
	IsActive        bool           `json:"is_active"`
	MaxParticipants *int           `json:"max_participants,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       string         `json:"created_at,omitempty"`
	UpdatedAt       string         `json:"updated_at,omitempty"`
}

// RoomList is a paginated room listing.
type RoomList struct {
	Rooms []Room `json:"rooms"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// CreateRoomRequest creates a chat room.
type CreateRoomRequest struct {
	Name            string         `json:"name,omitempty"`
	RoomType        string         `json:"room_type"`
	CourseID        *uuid.UUID     `json:"course_id,omitempty"`
	MaxParticipants *int           `json:"max_participants,omitempty"`
	ParticipantIDs  []uuid.UUID    `json:"participant_ids,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Message is a persisted chat message.
type Message struct {
	ID          uuid.UUID      `json:"id"`
	RoomID      uuid.UUID      `json:"room_id"`
	SenderID    uuid.UUID      `json:"sender_id"`
	MessageType string         `json:"message_type"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IsEdited    bool           `json:"is_edited"`
	IsDeleted   bool           `json:"is_deleted"`
	CreatedAt   string         `json:"created_at,omitempty"`
}

// MessageList is a paginated message history page.
type MessageList struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// CollabSession is a collaborative editing session.
type CollabSession struct {
	ID               uuid.UUID      `json:"id"`
	LessonID         *uuid.UUID     `json:"lesson_id,omitempty"`
	OwnerID          uuid.UUID      `json:"owner_id"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Language         string         `json:"language"`
	CodeContent      string         `json:"code_content"`
	IsActive         bool           `json:"is_active"`
	MaxCollaborators int            `json:"max_collaborators"`
	IsPublic         bool           `json:"is_public"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        string         `json:"created_at,omitempty"`
	UpdatedAt        string         `json:"updated_at,omitempty"`
}

// CreateSessionRequest creates a collaborative session.
type CreateSessionRequest struct {
	LessonID         *uuid.UUID     `json:"lesson_id,omitempty"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Language         string         `json:"language,omitempty"`
	CodeContent      string         `json:"code_content,omitempty"`
	MaxCollaborators int            `json:"max_collaborators,omitempty"`
	IsPublic         bool           `json:"is_public,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// UpdateSessionRequest updates a collaborative session. Nil fields are left
// unchanged by the server.
type UpdateSessionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Language    *string `json:"language,omitempty"`
	CodeContent *string `json:"code_content,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// Participant is a collaborative session participant.
type Participant struct {
	ID             uuid.UUID      `json:"id"`
	SessionID      uuid.UUID      `json:"session_id"`
	UserID         uuid.UUID      `json:"user_id"`
	CursorPosition map[string]any `json:"cursor_position,omitempty"`
	IsActive       bool           `json:"is_active"`
	JoinedAt       string         `json:"joined_at,omitempty"`
	LastActiveAt   string         `json:"last_active_at,omitempty"`
}
