package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransientNotifier_ShowAndDismiss(t *testing.T) {
	n := NewTransientNotifier(50 * time.Millisecond)

	n.Error("frying requires oil")
	cur := n.Current()
	require.NotNil(t, cur)
	assert.Equal(t, SeverityError, cur.Severity)
	assert.Equal(t, "frying requires oil", cur.Message)

	assert.Eventually(t, func() bool { return n.Current() == nil },
		time.Second, 10*time.Millisecond)
}

func TestTransientNotifier_ReplaceResetsTimer(t *testing.T) {
	n := NewTransientNotifier(80 * time.Millisecond)

	n.Error("first")
	time.Sleep(50 * time.Millisecond)
	n.Warn("second")

	// Past the first notice's deadline, the replacement is still visible
	// because its own timer started fresh.
	time.Sleep(50 * time.Millisecond)
	cur := n.Current()
	require.NotNil(t, cur)
	assert.Equal(t, SeverityWarning, cur.Severity)
	assert.Equal(t, "second", cur.Message)

	assert.Eventually(t, func() bool { return n.Current() == nil },
		time.Second, 10*time.Millisecond)
}

func TestTransientNotifier_DefaultTTL(t *testing.T) {
	n := NewTransientNotifier(0)
	assert.Equal(t, DefaultNoticeTTL, n.ttl)
}

func TestTransientNotifier_CurrentReturnsCopy(t *testing.T) {
	n := NewTransientNotifier(time.Minute)
	n.Error("original")

	cur := n.Current()
	cur.Message = "mutated"
	assert.Equal(t, "original", n.Current().Message)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Error("a")
	r.Warn("b")
	r.Error("c")

	require.Len(t, r.Notices, 3)
	assert.Equal(t, Notice{Severity: SeverityError, Message: "a"}, r.Notices[0])
	assert.Equal(t, Notice{Severity: SeverityWarning, Message: "b"}, r.Notices[1])

	errs := r.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "a", errs[0].Message)
	assert.Equal(t, "c", errs[1].Message)
}
