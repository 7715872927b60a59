package command

// HistoryLimit is the maximum number of remembered commands.
const HistoryLimit = 10

// Record returns history with cmd at the front. An existing copy of cmd is
// moved rather than duplicated and the result is truncated to HistoryLimit.
// history itself is not modified.
func Record(history []string, cmd string) []string {
	if cmd == "" {
		return history
	}
	out := make([]string, 0, min(len(history)+1, HistoryLimit))
	out = append(out, cmd)
	for _, h := range history {
		if len(out) == HistoryLimit {
			break
		}
		if h == cmd {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Clear returns an empty history.
func Clear([]string) []string {
	return []string{}
}

// History is a most-recent-first list of generated commands.
type History struct {
	entries []string
}

// Record moves cmd to the front of the history.
func (h *History) Record(cmd string) {
	h.entries = Record(h.entries, cmd)
}

// Clear forgets every entry.
func (h *History) Clear() {
	h.entries = Clear(h.entries)
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

func (h *History) Len() int { return len(h.entries) }
