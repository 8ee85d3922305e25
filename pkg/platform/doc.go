// Package platform is the HTTP client for the learning platform's REST
// collaborators: chat room and message CRUD and collaborative session CRUD.
//
// The realtime layer treats these as external, reliable services. They are
// consumed for room setup, message history, and the reconnect-and-resync
// path of collaborative editing; nothing here participates in the WebSocket
// transport itself.
package platform
