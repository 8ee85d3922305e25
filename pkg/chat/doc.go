// Package chat is the live chat consumer of the realtime session layer.
//
// A Session joins one chat room: it registers typed frame handlers with the
// underlying client's dispatcher, exposes the outbound chat actions
// (messages, typing indicator, read marker), and removes its registrations
// again on Leave. Outbound actions are dropped while the transport is down;
// the room's message history is available over REST for catching up.
package chat
