package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/store"
)

func newTestManager(t *testing.T, sessions store.SessionStore) *Manager {
	t.Helper()
	return NewManager(newTestOrchestrator(t, nil), sessions, zerolog.Nop())
}

func TestManagerCreateSeedsWelcome(t *testing.T) {
	m := newTestManager(t, store.NewMemoryStore())
	s := m.Create(context.Background())

	state := s.Snapshot()
	if state.SessionID == "" {
		t.Fatalf("session id not assigned")
	}
	if len(state.Messages) != 1 {
		t.Fatalf("expected exactly the welcome message, got %d", len(state.Messages))
	}
	welcome := state.Messages[0]
	if welcome.Type != domain.MessageTypeWelcome || welcome.Sender != domain.SenderAssistant {
		t.Fatalf("unexpected welcome message: %+v", welcome)
	}
	if !strings.Contains(welcome.Content, "Welcome to Khaadi") {
		t.Fatalf("unexpected welcome text: %q", welcome.Content)
	}
	if len(welcome.Actions) != 3 {
		t.Fatalf("expected three category actions, got %+v", welcome.Actions)
	}
	if state.CheckoutStep != domain.CheckoutIdle {
		t.Fatalf("new session should start idle, got %s", state.CheckoutStep)
	}
}

func TestManagerGetUnknown(t *testing.T) {
	m := newTestManager(t, store.NewMemoryStore())
	if _, err := m.Get(context.Background(), "missing"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerRestoresFromStore(t *testing.T) {
	sessions := store.NewMemoryStore()
	ctx := context.Background()

	m1 := newTestManager(t, sessions)
	s := m1.Create(ctx)
	if _, err := m1.HandleAction(ctx, s.ID(), domain.Action{Type: domain.ActionAddToCart, ProductID: "p1"}); err != nil {
		t.Fatalf("HandleAction failed: %v", err)
	}

	// A second manager instance sharing the store picks the session up.
	m2 := newTestManager(t, sessions)
	state, err := m2.State(ctx, s.ID())
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if len(state.Cart) != 1 || state.Cart[0].Product.ID != "p1" {
		t.Fatalf("cart not restored: %+v", state.Cart)
	}
	if len(state.Messages) < 2 {
		t.Fatalf("messages not restored: %d", len(state.Messages))
	}
}

func TestManagerClose(t *testing.T) {
	sessions := store.NewMemoryStore()
	ctx := context.Background()

	m := newTestManager(t, sessions)
	s := m.Create(ctx)

	if err := m.Close(ctx, s.ID()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := m.Get(ctx, s.ID()); err != ErrSessionNotFound {
		t.Fatalf("closed session should be gone, got %v", err)
	}
	if snap, err := sessions.Load(ctx, s.ID()); err != nil || snap != nil {
		t.Fatalf("snapshot should be deleted: %v %v", snap, err)
	}
	if err := m.Close(ctx, s.ID()); err != ErrSessionNotFound {
		t.Fatalf("double close should report not found, got %v", err)
	}
}

func TestManagerSendMessagePersists(t *testing.T) {
	sessions := store.NewMemoryStore()
	ctx := context.Background()

	m := newTestManager(t, sessions)
	s := m.Create(ctx)

	state, err := m.SendMessage(ctx, s.ID(), "hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if len(state.Messages) < 2 {
		t.Fatalf("expected welcome + user message, got %d", len(state.Messages))
	}

	snap, err := sessions.Load(ctx, s.ID())
	if err != nil || snap == nil {
		t.Fatalf("snapshot missing: %v %v", snap, err)
	}
	if len(snap.Messages) < 2 {
		t.Fatalf("snapshot stale: %d messages", len(snap.Messages))
	}
}

func TestManagerPersistsSettledStream(t *testing.T) {
	sessions := store.NewMemoryStore()
	ctx := context.Background()

	m := newTestManager(t, sessions)
	s := m.Create(ctx)

	if _, err := m.SendMessage(ctx, s.ID(), "show me kurtas"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	waitForIdle(t, s)

	// The save made right after SendMessage caught the reply mid-stream;
	// the settled reply must overwrite it.
	var stored domain.Message
	waitFor(t, 2*time.Second, func() bool {
		snap, err := sessions.Load(ctx, s.ID())
		if err != nil || snap == nil || len(snap.Messages) == 0 {
			return false
		}
		stored = snap.Messages[len(snap.Messages)-1]
		return !stored.IsStreaming && stored.Content != ""
	})

	live := lastMessage(t, s)
	if stored.Content != live.Content {
		t.Fatalf("stored reply %q does not match live reply %q", stored.Content, live.Content)
	}
	if stored.IsStreaming {
		t.Fatalf("stored reply still marked streaming")
	}
}

func TestManagerRestoredSessionPersistsSettledStream(t *testing.T) {
	sessions := store.NewMemoryStore()
	ctx := context.Background()

	m1 := newTestManager(t, sessions)
	s := m1.Create(ctx)

	// A second instance restores the session from the store and handles
	// the next turn.
	m2 := newTestManager(t, sessions)
	if _, err := m2.SendMessage(ctx, s.ID(), "show me dupattas"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	restored, err := m2.Get(ctx, s.ID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	waitForIdle(t, restored)

	waitFor(t, 2*time.Second, func() bool {
		snap, err := sessions.Load(ctx, s.ID())
		if err != nil || snap == nil || len(snap.Messages) == 0 {
			return false
		}
		last := snap.Messages[len(snap.Messages)-1]
		return !last.IsStreaming && last.Content != ""
	})
}
