package platform

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   []byte
}

func newAPIServer(t *testing.T, status int, response any) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		rec.body = body

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if response != nil {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_SendsBearerCredential(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusOK, RoomList{})
	client := NewClient(srv.URL, "tok-9")

	_, err := client.ListRooms(context.Background(), 0, 50)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-9", rec.auth)
}

func TestCreateRoom(t *testing.T) {
	id := uuid.New()
	srv, rec := newAPIServer(t, http.StatusCreated, Room{ID: id, RoomType: "direct", IsActive: true})
	client := NewClient(srv.URL, "tok")

	room, err := client.CreateRoom(context.Background(), &CreateRoomRequest{RoomType: "direct"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/v1/chat/rooms", rec.path)
	assert.Contains(t, string(rec.body), `"room_type":"direct"`)
	assert.Equal(t, id, room.ID)
	assert.True(t, room.IsActive)
}

func TestListMessages(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusOK, MessageList{
		Messages: []Message{{Content: "hello"}},
		Total:    1,
	})
	client := NewClient(srv.URL, "tok")

	list, err := client.ListMessages(context.Background(), "room-1", 10, 25)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/v1/chat/rooms/room-1/messages", rec.path)
	assert.Equal(t, "limit=25&skip=10", rec.query)
	require.Len(t, list.Messages, 1)
	assert.Equal(t, "hello", list.Messages[0].Content)
}

func TestDeleteMessage(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusNoContent, nil)
	client := NewClient(srv.URL, "tok")

	require.NoError(t, client.DeleteMessage(context.Background(), "room-1", "msg-1"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/v1/chat/rooms/room-1/messages/msg-1", rec.path)
}

func TestGetSession(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusOK, CollabSession{
		Title:       "pairing",
		Language:    "python",
		CodeContent: "print(1)",
	})
	client := NewClient(srv.URL, "tok")

	session, err := client.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/collaborative/sess-1", rec.path)
	assert.Equal(t, "print(1)", session.CodeContent)
}

func TestUpdateSession(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusOK, CollabSession{Title: "renamed"})
	client := NewClient(srv.URL, "tok")

	title := "renamed"
	session, err := client.UpdateSession(context.Background(), "sess-1", &UpdateSessionRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Contains(t, string(rec.body), `"title":"renamed"`)
	assert.Equal(t, "renamed", session.Title)
}

func TestListParticipants(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusOK, []Participant{{IsActive: true}})
	client := NewClient(srv.URL, "tok")

	participants, err := client.ListParticipants(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/collaborative/sess-1/participants", rec.path)
	require.Len(t, participants, 1)
	assert.True(t, participants[0].IsActive)
}

func TestClient_ErrorStatusIsReturned(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusForbidden, map[string]string{"detail": "access denied"})
	client := NewClient(srv.URL, "tok")

	_, err := client.GetSession(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "access denied")
}
