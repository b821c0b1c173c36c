package triage

// WindowConfig fixes the four independent bounds the context window manager
// enforces every turn. All four are configuration constants; none is derived
// from another.
type WindowConfig struct {
	// MaxMessageChars caps a single message's length at ingestion.
	MaxMessageChars int
	// MaxHistory caps how many messages the session retains (oldest evicted).
	MaxHistory int
	// HistoryWindow caps how many recent messages are sent to the model.
	// Independent of, and smaller than, MaxHistory.
	HistoryWindow int
	// MaxTurns caps user turns before the session is gracefully closed.
	MaxTurns int
}

// DefaultWindowConfig mirrors the production defaults.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		MaxMessageChars: 2000,
		MaxHistory:      24,
		HistoryWindow:   10,
		MaxTurns:        50,
	}
}

const truncationMarker = "... (truncated)"

// Truncate enforces the per-message character cap before the message is
// stored or forwarded anywhere. The cap counts runes, not bytes, so a cut
// never lands inside a multi-byte sequence.
func (w WindowConfig) Truncate(message string) string {
	if w.MaxMessageChars <= 0 || len(message) <= w.MaxMessageChars {
		return message
	}
	runes := []rune(message)
	if len(runes) <= w.MaxMessageChars {
		return message
	}
	return string(runes[:w.MaxMessageChars]) + truncationMarker
}

// Append truncates the message, appends it to the session history, and evicts
// the oldest entries beyond the retention cap. Ring-buffer discipline:
// oldest-first eviction.
func (w WindowConfig) Append(sess *Session, role, content string) {
	sess.History = append(sess.History, Message{
		Role:    role,
		Content: w.Truncate(content),
		Turn:    sess.TurnCount,
	})
	if w.MaxHistory > 0 && len(sess.History) > w.MaxHistory {
		evict := len(sess.History) - w.MaxHistory
		sess.History = append(sess.History[:0:0], sess.History[evict:]...)
	}
}

// WindowSlice returns the most recent slice of history for the model payload.
// The transmission bound is independent of the retention bound.
func (w WindowConfig) WindowSlice(history []Message) []Message {
	if w.HistoryWindow <= 0 || len(history) <= w.HistoryWindow {
		return history
	}
	return history[len(history)-w.HistoryWindow:]
}

// TurnLimitExceeded reports whether the session has used up its turn budget.
func (w WindowConfig) TurnLimitExceeded(sess *Session) bool {
	return w.MaxTurns > 0 && sess.TurnCount > w.MaxTurns
}
