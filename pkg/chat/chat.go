package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/learnloop/realtime/pkg/auth"
	"github.com/learnloop/realtime/pkg/dispatch"
	"github.com/learnloop/realtime/pkg/logging"
	"github.com/learnloop/realtime/pkg/platform"
	"github.com/learnloop/realtime/pkg/protocol"
	"github.com/learnloop/realtime/pkg/session"
)

// Handlers are the chat UI callbacks. Nil entries are skipped.
type Handlers struct {
	// OnMessage receives every chat message in the room, including the
	// sender's own echo.
	OnMessage func(*protocol.NewMessage)
	// OnTyping receives typing indicator changes from other participants.
	OnTyping func(*protocol.UserTyping)
	// OnJoined and OnLeft receive room presence changes.
	OnJoined func(*protocol.UserJoined)
	OnLeft   func(*protocol.UserLeft)
	// OnDeleted receives message deletions.
	OnDeleted func(*protocol.MessageDeleted)
	// OnConnectionChange receives connectivity transitions for rendering a
	// connection status indicator.
	OnConnectionChange func(connected bool)
}

// Session is a live chat session for one room.
type Session struct {
	client *session.Client
	api    *platform.Client
	roomID string
	cred   auth.Credential
	h      Handlers
	log    *slog.Logger

	mu           sync.Mutex
	subs         []dispatch.Subscription
	removeChange func()
	joined       bool
}

// NewSession wires a chat session for roomID on top of client. The platform
// client is used for message history and may be nil when history is not
// needed.
func NewSession(client *session.Client, api *platform.Client, roomID string, cred auth.Credential, h Handlers) *Session {
	return &Session{
		client: client,
		api:    api,
		roomID: roomID,
		cred:   cred,
		h:      h,
		log:    logging.Nop(),
	}
}

// SetLogger sets the operational logger for the session.
func (s *Session) SetLogger(log *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log != nil {
		s.log = log
	} else {
		s.log = logging.Nop()
	}
}

// Join registers the session's handlers and connects the room transport.
// Joining an already joined session reconnects without re-registering.
func (s *Session) Join(ctx context.Context) error {
	if auth.Expired(s.cred) {
		// The server is authoritative; dial anyway but leave a trace.
		s.log.Warn("joining with expired credential", "room", s.roomID)
	}

	s.mu.Lock()
	if !s.joined {
		s.register()
		s.joined = true
	}
	s.mu.Unlock()

	return s.client.Connect(ctx, s.roomID, s.cred)
}

// Leave removes the session's handler registrations and tears the transport
// down. Leaving twice is a no-op.
func (s *Session) Leave() {
	s.mu.Lock()
	if !s.joined {
		s.mu.Unlock()
		return
	}
	d := s.client.Dispatcher()
	for _, sub := range s.subs {
		d.Off(sub)
	}
	s.subs = nil
	if s.removeChange != nil {
		s.removeChange()
		s.removeChange = nil
	}
	s.joined = false
	s.mu.Unlock()

	s.client.Disconnect()
}

// SendMessage posts a chat message. While disconnected the message is
// dropped with a log line; chat history covers the gap after reconnect.
func (s *Session) SendMessage(ctx context.Context, content string, metadata map[string]any) {
	s.send(ctx, protocol.NewMessageAction(content, metadata))
}

// SendTyping toggles the typing indicator.
func (s *Session) SendTyping(ctx context.Context, isTyping bool) {
	s.send(ctx, protocol.NewTypingAction(isTyping))
}

// MarkAsRead advances the caller's read marker to now.
func (s *Session) MarkAsRead(ctx context.Context) {
	s.send(ctx, protocol.NewReadAction())
}

// History fetches a page of the room's persisted messages over REST.
func (s *Session) History(ctx context.Context, skip, limit int) (*platform.MessageList, error) {
	if s.api == nil {
		return nil, errors.New("no platform client configured")
	}
	return s.api.ListMessages(ctx, s.roomID, skip, limit)
}

func (s *Session) send(ctx context.Context, action protocol.Action) {
	if err := s.client.Send(ctx, action); err != nil {
		s.log.Debug("chat action dropped", "action", action.ActionType(), "room", s.roomID, "error", err)
	}
}

// register subscribes the typed handlers. Caller holds s.mu.
func (s *Session) register() {
	d := s.client.Dispatcher()

	if s.h.OnMessage != nil {
		s.subs = append(s.subs, d.On(protocol.KindNewMessage, func(f protocol.Frame) {
			s.h.OnMessage(f.(*protocol.NewMessage))
		}))
	}
	if s.h.OnTyping != nil {
		s.subs = append(s.subs, d.On(protocol.KindUserTyping, func(f protocol.Frame) {
			s.h.OnTyping(f.(*protocol.UserTyping))
		}))
	}
	if s.h.OnJoined != nil {
		s.subs = append(s.subs, d.On(protocol.KindUserJoined, func(f protocol.Frame) {
			s.h.OnJoined(f.(*protocol.UserJoined))
		}))
	}
	if s.h.OnLeft != nil {
		s.subs = append(s.subs, d.On(protocol.KindUserLeft, func(f protocol.Frame) {
			s.h.OnLeft(f.(*protocol.UserLeft))
		}))
	}
	if s.h.OnDeleted != nil {
		s.subs = append(s.subs, d.On(protocol.KindMessageDeleted, func(f protocol.Frame) {
			s.h.OnDeleted(f.(*protocol.MessageDeleted))
		}))
	}
	if s.h.OnConnectionChange != nil {
		s.removeChange = s.client.OnConnectionChange(s.h.OnConnectionChange)
	}
}
