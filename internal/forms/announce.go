package forms

import "log/slog"

// Announcer delivers validation summaries to assistive technology. The
// engine announces once per whole-form validation, not per field, to avoid
// flooding screen-reader output.
type Announcer interface {
	// Announce delivers a message. assertive requests immediate
	// interruption of current screen-reader output.
	Announce(message string, assertive bool)
}

// NoopAnnouncer discards announcements.
type NoopAnnouncer struct{}

// Announce discards the message.
func (NoopAnnouncer) Announce(message string, assertive bool) {}

// LogAnnouncer writes announcements to a structured logger. Useful in
// headless runs and tests.
type LogAnnouncer struct {
	Logger *slog.Logger
}

// Announce logs the message.
func (a LogAnnouncer) Announce(message string, assertive bool) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("announcement",
		"message", message,
		"assertive", assertive,
	)
}
