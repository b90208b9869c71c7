package chat

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/catalog"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// waitFor polls the condition until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestStreamRevealsWordsAndCompletesOnce(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	s := newTestSession()

	calls := 0
	s.mu.Lock()
	o.streamLocked(s, "one two three", func(msg *domain.Message) {
		calls++
	})
	s.mu.Unlock()

	state := s.Snapshot()
	if !state.IsTyping {
		t.Fatalf("typing indicator should be on while streaming")
	}
	msg := state.Messages[len(state.Messages)-1]
	if !msg.IsStreaming || msg.Sender != domain.SenderAssistant {
		t.Fatalf("expected an in-flight assistant message: %+v", msg)
	}

	waitFor(t, 2*time.Second, func() bool {
		st := s.Snapshot()
		last := st.Messages[len(st.Messages)-1]
		return !last.IsStreaming && !st.IsTyping
	})

	last := lastMessage(t, s)
	if last.Content != "one two three" {
		t.Fatalf("unexpected final content: %q", last.Content)
	}
	if calls != 1 {
		t.Fatalf("onComplete should run exactly once, ran %d times", calls)
	}

	s.mu.Lock()
	busy := s.busy
	s.mu.Unlock()
	if busy {
		t.Fatalf("session should not stay busy after stream completion")
	}
}

func TestStreamEmptyReplyCompletesImmediately(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	s := newTestSession()

	calls := 0
	s.mu.Lock()
	o.streamLocked(s, "   ", func(msg *domain.Message) {
		calls++
	})
	s.mu.Unlock()

	state := s.Snapshot()
	if state.IsTyping {
		t.Fatalf("empty reply should complete synchronously")
	}
	msg := state.Messages[len(state.Messages)-1]
	if msg.IsStreaming || msg.Content != "" {
		t.Fatalf("expected a completed empty message: %+v", msg)
	}
	if calls != 1 {
		t.Fatalf("onComplete should still run, ran %d times", calls)
	}
}

func TestStreamCompletionDecoratesMessage(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	s := newTestSession()

	s.mu.Lock()
	o.streamLocked(s, "here you go", func(msg *domain.Message) {
		msg.Type = domain.MessageTypeProduct
		msg.Products = testProducts()[:1]
	})
	s.mu.Unlock()

	waitFor(t, 2*time.Second, func() bool {
		last := lastMessage(t, s)
		return !last.IsStreaming
	})

	last := lastMessage(t, s)
	if last.Type != domain.MessageTypeProduct || len(last.Products) != 1 {
		t.Fatalf("completion callback changes were lost: %+v", last)
	}
}

func TestStreamStopsOnClose(t *testing.T) {
	o := NewOrchestrator(Options{
		Catalog:      catalog.New(testProducts()),
		Logger:       zerolog.Nop(),
		StartDelay:   time.Millisecond,
		WordInterval: 50 * time.Millisecond,
	})
	s := newTestSession()

	calls := 0
	s.mu.Lock()
	o.streamLocked(s, "a b c d e f g h i j k l m n o p", func(msg *domain.Message) {
		calls++
	})
	s.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	s.close()

	// Give the goroutine time to observe cancellation.
	time.Sleep(100 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("onComplete should not run for a cancelled stream")
	}
}
