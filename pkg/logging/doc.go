// Package logging is a thin configuration layer over log/slog.
//
// Components in this module hold a *slog.Logger and default to Nop() so that
// library consumers who do not care about logs pay nothing. Applications
// build a real logger with New and hand it to components via their SetLogger
// methods.
package logging
