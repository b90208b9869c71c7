// Package store defines the storage interfaces and implementations.
package store

import (
	"context"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// Snapshot is the persistable view of a chat session.
type Snapshot struct {
	domain.SessionState
	PendingQuery     string `json:"pending_query,omitempty"`
	LocationPrompted bool   `json:"location_prompted,omitempty"`
}

// SessionStore persists session snapshots. Load returns (nil, nil) when the
// session is unknown.
type SessionStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// OrderStore persists placed orders. GetOrder returns (nil, nil) when the
// order is unknown.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListOrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	Close() error
}
