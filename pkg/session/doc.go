// Package session owns the WebSocket transport for one logical room.
//
// A Client holds at most one live transport at a time. Connect dials the
// room's endpoint and blocks until the transport is open; inbound frames are
// decoded and handed to the client's Dispatcher from a single read loop.
// When an open transport is lost unexpectedly the client reconnects with
// exponential backoff (1s, 2s, 4s, ... up to a fixed attempt ceiling) using
// the last-known room and credential. An explicit Disconnect is terminal: it
// cancels any pending reconnect and clears the room binding.
//
// Consumers observe connectivity through OnConnectionChange callbacks, which
// fire on every open and close transition. Outbound actions submitted while
// the transport is not open are dropped with a log line rather than queued;
// the UI resync path on reconnect covers the gap.
//
// Example:
//
//	cfg := session.DefaultConfig()
//	cfg.BaseURL = "wss://platform.example.com"
//	cfg.Namespace = session.NamespaceChat
//
//	client, err := session.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := client.Connect(ctx, roomID, credential); err != nil {
//		log.Fatal(err)
//	}
//	defer client.Disconnect()
package session
