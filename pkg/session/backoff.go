package session

import "time"

// reconnector is the reconnect half of the client's state machine: an attempt
// counter plus the single cancellable timer for the next scheduled attempt.
// All methods are called with the owning client's mutex held.
type reconnector struct {
	base    time.Duration
	ceiling int
	attempt int
	timer   *time.Timer
}

func newReconnector(base time.Duration, ceiling int) *reconnector {
	return &reconnector{base: base, ceiling: ceiling}
}

// next advances the attempt counter and returns the backoff delay before that
// attempt: base * 2^(attempt-1). Returns ok=false once the ceiling is
// reached, at which point the client settles into a terminal closed state.
func (r *reconnector) next() (delay time.Duration, attempt int, ok bool) {
	if r.attempt >= r.ceiling {
		return 0, r.attempt, false
	}
	r.attempt++
	return r.base << (r.attempt - 1), r.attempt, true
}

// schedule arms the timer for the next attempt, replacing any pending one.
func (r *reconnector) schedule(delay time.Duration, fn func()) {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(delay, fn)
}

// reset clears the attempt counter after a successful open. Any armed timer
// is left alone: a timer can only be pending while the transport is closed.
func (r *reconnector) reset() {
	r.attempt = 0
}

// cancel stops any pending attempt and clears the counter. Used on explicit
// disconnect and room switches, which always win over scheduled reconnects.
func (r *reconnector) cancel() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.attempt = 0
}
