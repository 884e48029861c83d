package guard

import (
	"sync"
	"time"
)

// Severity classifies a user-facing notice.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Notice is one transient user-facing message.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Notifier receives policy notices from the guard.
type Notifier interface {
	Error(message string)
	Warn(message string)
}

type discardNotifier struct{}

func (discardNotifier) Error(string) {}
func (discardNotifier) Warn(string)  {}

// DefaultNoticeTTL is how long a transient notice stays visible.
const DefaultNoticeTTL = 1800 * time.Millisecond

// TransientNotifier holds at most one visible notice at a time. Each new
// notice replaces the current one and resets the auto-dismiss timer.
//
// The mutex guards against the dismiss timer goroutine; guard calls
// themselves arrive on the single editor thread.
type TransientNotifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	timer   *time.Timer
}

// NewTransientNotifier creates a notifier with the given auto-dismiss
// duration; ttl <= 0 uses DefaultNoticeTTL.
func NewTransientNotifier(ttl time.Duration) *TransientNotifier {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &TransientNotifier{ttl: ttl}
}

// Error shows an error notice, replacing any visible notice.
func (n *TransientNotifier) Error(message string) {
	n.show(Notice{Severity: SeverityError, Message: message})
}

// Warn shows a warning notice, replacing any visible notice.
func (n *TransientNotifier) Warn(message string) {
	n.show(Notice{Severity: SeverityWarning, Message: message})
}

// Current returns the visible notice, or nil once it has auto-dismissed.
func (n *TransientNotifier) Current() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	notice := *n.current
	return &notice
}

func (n *TransientNotifier) show(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = &notice
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, n.dismiss)
}

func (n *TransientNotifier) dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
}

// Recorder accumulates notices in order. Used by the validate surface and
// by tests that assert on exact guard output.
type Recorder struct {
	Notices []Notice
}

// Error records an error notice.
func (r *Recorder) Error(message string) {
	r.Notices = append(r.Notices, Notice{Severity: SeverityError, Message: message})
}

// Warn records a warning notice.
func (r *Recorder) Warn(message string) {
	r.Notices = append(r.Notices, Notice{Severity: SeverityWarning, Message: message})
}

// Errors returns only the recorded error notices.
func (r *Recorder) Errors() []Notice {
	var out []Notice
	for _, n := range r.Notices {
		if n.Severity == SeverityError {
			out = append(out, n)
		}
	}
	return out
}
