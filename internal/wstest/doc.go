// Package wstest is a scripted WebSocket room server for exercising the
// realtime client in tests: it records the frames a client sends, pushes
// scripted server frames, and can refuse dials or drop live connections to
// provoke the reconnect path.
package wstest
