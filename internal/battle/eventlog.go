package battle

// EventLog keeps the most recent battle messages in a fixed-size ring.
type EventLog struct {
	entries []string
	next    int
	full    bool
}

// NewEventLog creates a log holding up to capacity messages.
func NewEventLog(capacity int) *EventLog {
	if capacity < 1 {
		capacity = 1
	}
	return &EventLog{entries: make([]string, capacity)}
}

// Add appends msg, evicting the oldest message when full.
func (l *EventLog) Add(msg string) {
	l.entries[l.next] = msg
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Len returns the number of stored messages.
func (l *EventLog) Len() int {
	if l.full {
		return len(l.entries)
	}
	return l.next
}

// Recent returns stored messages newest first.
func (l *EventLog) Recent() []string {
	n := l.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		idx := (l.next - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}
