// Package protocol defines the wire protocol spoken over a room's WebSocket
// transport.
//
// All frames are JSON text messages carrying a "type" discriminator. Inbound
// (server to client) frames decode into a closed set of typed structs via
// DecodeFrame; a frame whose type is not recognized decodes into *Unknown
// rather than failing, so protocol additions on the server side never break
// older clients. Outbound (client to server) actions are built through the
// New*Action constructors, which stamp the send-time timestamp; the session
// credential is never part of an action, it travels once in the connection
// URL.
package protocol
