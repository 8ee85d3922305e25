// Package dispatch routes inbound frames to interested consumers.
//
// A Dispatcher holds a registry keyed by frame kind. Consumers register
// handlers with On and remove them with Off; handlers registered under
// protocol.KindAny receive every frame. Dispatch isolates handlers from each
// other: a panicking handler is recovered and logged, and the remaining
// handlers for the same frame still run. Registrations made or removed while
// a dispatch pass is running take effect on the next pass.
package dispatch
