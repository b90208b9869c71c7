package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

func testSnapshot(sessionID string) *Snapshot {
	return &Snapshot{
		SessionState: domain.SessionState{
			SessionID: sessionID,
			Messages: []domain.Message{
				{ID: "m1", Content: "hello", Sender: domain.SenderUser, Type: domain.MessageTypeText},
			},
			Cart: []domain.CartItem{
				{Product: domain.Product{ID: "p1", Name: "Kurta", Price: 3490}, Quantity: 2},
			},
			CartTotal:    6980,
			CheckoutStep: domain.CheckoutAddress,
			CreatedAt:    time.Now().UTC().Truncate(time.Second),
		},
		PendingQuery:     "weather advice",
		LocationPrompted: true,
	}
}

func runSessionStoreTests(t *testing.T, s SessionStore) {
	ctx := context.Background()

	if snap, err := s.Load(ctx, "absent"); err != nil || snap != nil {
		t.Fatalf("Load of absent session: %v %v", snap, err)
	}

	want := testSnapshot("s1")
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil {
		t.Fatalf("Load returned nil for saved session")
	}
	if got.SessionID != "s1" || got.CheckoutStep != domain.CheckoutAddress {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Fatalf("messages not round-tripped: %+v", got.Messages)
	}
	if len(got.Cart) != 1 || got.Cart[0].Quantity != 2 {
		t.Fatalf("cart not round-tripped: %+v", got.Cart)
	}
	if got.PendingQuery != "weather advice" || !got.LocationPrompted {
		t.Fatalf("resume fields not round-tripped: %+v", got)
	}

	// Overwrite wins.
	want.CheckoutStep = domain.CheckoutConfirmed
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, _ = s.Load(ctx, "s1")
	if got.CheckoutStep != domain.CheckoutConfirmed {
		t.Fatalf("overwrite not applied: %+v", got)
	}

	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if snap, _ := s.Load(ctx, "s1"); snap != nil {
		t.Fatalf("snapshot survived delete: %+v", snap)
	}
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete of absent session should be a no-op: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	runSessionStoreTests(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client)
	defer s.Close()
	runSessionStoreTests(t, s)
}

func TestRedisStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client, WithTTL(time.Minute), WithPrefix("test:"))
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, testSnapshot("s1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ttl := mr.TTL("test:s1"); ttl != time.Minute {
		t.Fatalf("unexpected ttl: %s", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if snap, err := s.Load(ctx, "s1"); err != nil || snap != nil {
		t.Fatalf("snapshot should expire: %v %v", snap, err)
	}
}
