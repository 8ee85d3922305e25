package platform

import (
	"context"
	"net/http"
	"net/url"
)

// CreateRoom creates a chat room with the caller as first participant.
func (c *Client) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/rooms", req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListRooms returns the caller's chat rooms, most recently active first.
func (c *Client) ListRooms(ctx context.Context, skip, limit int) (*RoomList, error) {
	var list RoomList
	if err := c.do(ctx, http.MethodGet, "/api/v1/chat/rooms"+pageQuery(skip, limit), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListMessages returns a page of a room's message history, newest first.
func (c *Client) ListMessages(ctx context.Context, roomID string, skip, limit int) (*MessageList, error) {
	var list MessageList
	path := "/api/v1/chat/rooms/" + url.PathEscape(roomID) + "/messages" + pageQuery(skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteMessage soft-deletes the caller's own message. Other participants
// learn about it through the message_deleted frame.
func (c *Client) DeleteMessage(ctx context.Context, roomID, messageID string) error {
	path := "/api/v1/chat/rooms/" + url.PathEscape(roomID) + "/messages/" + url.PathEscape(messageID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
