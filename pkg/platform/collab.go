package platform

import (
	"context"
	"net/http"
	"net/url"
)

// CreateSession creates a collaborative editing session.
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CollabSession, error) {
	var session CollabSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/collaborative", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession fetches the current state of a collaborative session, including
// its full document text. This is the resync source after a reconnect.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*CollabSession, error) {
	var session CollabSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/collaborative/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession updates session settings or content outside the realtime
// path.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, req *UpdateSessionRequest) (*CollabSession, error) {
	var session CollabSession
	if err := c.do(ctx, http.MethodPut, "/api/v1/collaborative/"+url.PathEscape(sessionID), req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a collaborative session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/collaborative/"+url.PathEscape(sessionID), nil, nil)
}

// ListParticipants returns the session's participants with their last known
// cursor positions.
func (c *Client) ListParticipants(ctx context.Context, sessionID string) ([]Participant, error) {
	var participants []Participant
	path := "/api/v1/collaborative/" + url.PathEscape(sessionID) + "/participants"
	if err := c.do(ctx, http.MethodGet, path, nil, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}
