package collab

import (
	"context"
	"log/slog"
	"sync"

	"github.com/learnloop/realtime/pkg/auth"
	"github.com/learnloop/realtime/pkg/dispatch"
	"github.com/learnloop/realtime/pkg/logging"
	"github.com/learnloop/realtime/pkg/platform"
	"github.com/learnloop/realtime/pkg/protocol"
	"github.com/learnloop/realtime/pkg/session"
)

// Handlers are the editor UI callbacks. Nil entries are skipped.
type Handlers struct {
	// OnContent fires when the shared document changed remotely. It does not
	// fire when the incoming text equals the local text, so the editor never
	// re-renders on its own echo.
	OnContent func(content, userID string)
	// OnCursor receives other participants' cursor positions.
	OnCursor func(*protocol.CursorMove)
	// OnJoined and OnLeft receive session presence changes.
	OnJoined func(*protocol.UserJoined)
	OnLeft   func(*protocol.UserLeft)
	// OnConnectionChange receives connectivity transitions.
	OnConnectionChange func(connected bool)
}

// Session is a collaborative editing session for one shared document.
type Session struct {
	client    *session.Client
	api       *platform.Client
	sessionID string
	cred      auth.Credential
	h         Handlers
	log       *slog.Logger

	mu        sync.Mutex
	content   string
	hadOpened bool
	subs      []dispatch.Subscription
	removers  []func()
	joined    bool
}

// NewSession wires a collaborative session on top of client. The platform
// client feeds the reconnect resync; it may be nil, which disables resync.
func NewSession(client *session.Client, api *platform.Client, sessionID string, cred auth.Credential, h Handlers) *Session {
	return &Session{
		client:    client,
		api:       api,
		sessionID: sessionID,
		cred:      cred,
		h:         h,
		log:       logging.Nop(),
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

// Join registers handlers, connects the transport, and seeds the local
// document from the server when a platform client is available.
func (s *Session) Join(ctx context.Context) error {
	if auth.Expired(s.cred) {
		s.log.Warn("joining with expired credential", "session", s.sessionID)
	}

	s.mu.Lock()
	if !s.joined {
		s.register()
		s.joined = true
	}
	s.mu.Unlock()

	if err := s.client.Connect(ctx, s.sessionID, s.cred); err != nil {
		return err
	}

	if s.api != nil {
		if err := s.Resync(ctx); err != nil {
			s.log.Warn("initial content fetch failed", "session", s.sessionID, "error", err)
		}
	}
	return nil
}

// Leave removes the session's registrations and tears the transport down.
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
	for _, remove := range s.removers {
		remove()
	}
	s.removers = nil
	s.joined = false
	s.mu.Unlock()

	s.client.Disconnect()
}

// Content returns the local document text.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// SetContent records a local edit and broadcasts the entire document.
// A send that fails while offline is dropped; the resync on reconnect
// re-converges both sides.
func (s *Session) SetContent(ctx context.Context, content string) {
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()

	s.send(ctx, protocol.NewCodeUpdateAction(content))
}

// SendCursorUpdate reports the local cursor position.
func (s *Session) SendCursorUpdate(ctx context.Context, line, column int) {
	s.send(ctx, protocol.NewCursorMoveAction(line, column))
}

// Resync fetches the authoritative document over REST and applies it with
// the usual equality guard.
func (s *Session) Resync(ctx context.Context) error {
	if s.api == nil {
		return nil
	}
	remote, err := s.api.GetSession(ctx, s.sessionID)
	if err != nil {
		return err
	}
	s.applyRemote(remote.CodeContent, "")
	return nil
}

func (s *Session) send(ctx context.Context, action protocol.Action) {
	if err := s.client.Send(ctx, action); err != nil {
		s.log.Debug("collab action dropped", "action", action.ActionType(), "session", s.sessionID, "error", err)
	}
}

// applyRemote is the last-writer-wins replace with the equality guard.
func (s *Session) applyRemote(content, userID string) {
	s.mu.Lock()
	if content == s.content {
		s.mu.Unlock()
		return
	}
	s.content = content
	onContent := s.h.OnContent
	s.mu.Unlock()

	if onContent != nil {
		onContent(content, userID)
	}
}

// register subscribes the typed handlers. Caller holds s.mu.
func (s *Session) register() {
	d := s.client.Dispatcher()

	s.subs = append(s.subs, d.On(protocol.KindCodeUpdate, func(f protocol.Frame) {
		update := f.(*protocol.CodeUpdate)
		s.applyRemote(update.Content, update.UserID)
	}))

	if s.h.OnCursor != nil {
		s.subs = append(s.subs, d.On(protocol.KindCursorMove, func(f protocol.Frame) {
			s.h.OnCursor(f.(*protocol.CursorMove))
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

	if s.h.OnConnectionChange != nil {
		s.removers = append(s.removers, s.client.OnConnectionChange(s.h.OnConnectionChange))
	}

	// Resync after every reopen; the first open seeds through Join instead.
	s.removers = append(s.removers, s.client.OnConnectionChange(func(connected bool) {
		s.mu.Lock()
		reopened := connected && s.hadOpened
		if connected {
			s.hadOpened = true
		}
		s.mu.Unlock()

		if reopened && s.api != nil {
			go func() {
				if err := s.Resync(context.Background()); err != nil {
					s.log.Warn("resync after reconnect failed", "session", s.sessionID, "error", err)
				}
			}()
		}
	}))
}
