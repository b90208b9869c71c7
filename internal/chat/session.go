// Package chat implements the conversation core: the session state machine,
// the action dispatcher, the checkout flow and the streaming presenter.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/store"
)

var (
	// ErrSessionClosed is returned for operations on a torn-down session.
	ErrSessionClosed = errors.New("chat: session closed")
	// ErrStreamInProgress is returned when a message arrives while a reply
	// is still being produced or streamed.
	ErrStreamInProgress = errors.New("chat: a reply is already in progress")
	// ErrSessionNotFound is returned by the manager for unknown session ids.
	ErrSessionNotFound = errors.New("chat: session not found")
	// ErrProductNotFound is returned when an action references an unknown
	// product id.
	ErrProductNotFound = errors.New("chat: product not found")
)

// Session owns all conversation state for one user. Every mutation is
// serialized through its mutex; the streaming goroutine is the only other
// writer and takes the same lock per tick.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time

	messages     []domain.Message
	isTyping     bool
	currentQuery string
	pendingQuery string

	cart            []domain.CartItem
	checkoutStep    domain.CheckoutStep
	shippingAddress *domain.ShippingAddress
	orderNumber     string

	latitude         *float64
	longitude        *float64
	city             string
	locationPrompted bool

	// busy guards against a second SendMessage while an assistant call or
	// stream is outstanding.
	busy         bool
	closed       bool
	cancelStream context.CancelFunc

	// persist, when set, saves a snapshot once a detached stream settles.
	persist func(*store.Snapshot)
}

func newSessionID() string {
	return uuid.New().String()
}

func newMessageID() string {
	return uuid.New().String()
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) hasLocation() bool {
	return s.latitude != nil && s.longitude != nil
}

// appendLocked adds a message to the conversation log. Caller holds the lock.
func (s *Session) appendLocked(msg domain.Message) int {
	s.messages = append(s.messages, msg)
	return len(s.messages) - 1
}

func userMessage(content string) domain.Message {
	return domain.Message{
		ID:        newMessageID(),
		Content:   content,
		Sender:    domain.SenderUser,
		Timestamp: time.Now(),
		Type:      domain.MessageTypeText,
	}
}

func assistantMessage(content string, msgType domain.MessageType) domain.Message {
	return domain.Message{
		ID:        newMessageID(),
		Content:   content,
		Sender:    domain.SenderAssistant,
		Timestamp: time.Now(),
		Type:      msgType,
	}
}

// cartTotalLocked sums price*quantity over cart lines. Caller holds the lock.
func (s *Session) cartTotalLocked() float64 {
	var total float64
	for _, item := range s.cart {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// upsertCartLocked adds quantity to the line keyed by (product id, color,
// size), creating the line if absent. Caller holds the lock.
func (s *Session) upsertCartLocked(product domain.Product, quantity int, color, size string) {
	for i := range s.cart {
		item := &s.cart[i]
		if item.Product.ID == product.ID && item.SelectedColor == color && item.SelectedSize == size {
			item.Quantity += quantity
			return
		}
	}
	s.cart = append(s.cart, domain.CartItem{
		Product:       product,
		Quantity:      quantity,
		SelectedColor: color,
		SelectedSize:  size,
	})
}

// historyLocked maps the conversation log to assistant history, excluding
// the seeded welcome message. Caller holds the lock.
func (s *Session) historyLocked() []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(s.messages))
	for _, msg := range s.messages {
		if msg.Type == domain.MessageTypeWelcome {
			continue
		}
		turns = append(turns, domain.ChatTurn{
			Role:    string(msg.Sender),
			Content: msg.Content,
		})
	}
	return turns
}

// Snapshot returns the rendering-layer view of the session.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() domain.SessionState {
	messages := make([]domain.Message, len(s.messages))
	copy(messages, s.messages)
	cart := make([]domain.CartItem, len(s.cart))
	copy(cart, s.cart)

	return domain.SessionState{
		SessionID:       s.id,
		Messages:        messages,
		IsTyping:        s.isTyping,
		CurrentQuery:    s.currentQuery,
		Cart:            cart,
		CartTotal:       s.cartTotalLocked(),
		CheckoutStep:    s.checkoutStep,
		ShippingAddress: s.shippingAddress,
		OrderNumber:     s.orderNumber,
		Latitude:        s.latitude,
		Longitude:       s.longitude,
		City:            s.city,
		CreatedAt:       s.createdAt,
	}
}

// snapshotLocked builds the persistable snapshot. Caller holds the lock.
func (s *Session) snapshotLocked() *store.Snapshot {
	return &store.Snapshot{
		SessionState:     s.stateLocked(),
		PendingQuery:     s.pendingQuery,
		LocationPrompted: s.locationPrompted,
	}
}

// restore rebuilds session state from a persisted snapshot.
func restoreSession(snap *store.Snapshot) *Session {
	s := &Session{
		id:               snap.SessionID,
		createdAt:        snap.CreatedAt,
		messages:         snap.Messages,
		currentQuery:     snap.CurrentQuery,
		pendingQuery:     snap.PendingQuery,
		cart:             snap.Cart,
		checkoutStep:     snap.CheckoutStep,
		shippingAddress:  snap.ShippingAddress,
		orderNumber:      snap.OrderNumber,
		latitude:         snap.Latitude,
		longitude:        snap.Longitude,
		city:             snap.City,
		locationPrompted: snap.LocationPrompted,
	}
	if s.checkoutStep == "" {
		s.checkoutStep = domain.CheckoutIdle
	}
	return s
}

// close tears the session down, cancelling any in-flight stream. Further
// operations fail with ErrSessionClosed.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	cancel := s.cancelStream
	s.cancelStream = nil
	s.isTyping = false
	s.busy = false
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
