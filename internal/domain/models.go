// Package domain defines the core domain models for the chat store.
package domain

import (
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// MessageType classifies a conversation message.
type MessageType string

const (
	MessageTypeText              MessageType = "text"
	MessageTypeProduct           MessageType = "product"
	MessageTypeWelcome           MessageType = "welcome"
	MessageTypeCart              MessageType = "cart"
	MessageTypeCheckout          MessageType = "checkout"
	MessageTypeOrderConfirmation MessageType = "order_confirmation"
)

// ActionType is a structured, button-triggered intent distinct from free text.
type ActionType string

const (
	ActionAddToCart        ActionType = "add_to_cart"
	ActionViewCart         ActionType = "view_cart"
	ActionCheckout         ActionType = "checkout"
	ActionViewDetails      ActionType = "view_details"
	ActionContinueShopping ActionType = "continue_shopping"
	ActionProvideAddress   ActionType = "provide_address"
	ActionConfirmPayment   ActionType = "confirm_payment"
	ActionPlaceOrder       ActionType = "place_order"
)

// CheckoutStep is the phase of the forward-only checkout pipeline.
type CheckoutStep string

const (
	CheckoutIdle      CheckoutStep = "idle"
	CheckoutAddress   CheckoutStep = "address"
	CheckoutPayment   CheckoutStep = "payment"
	CheckoutConfirmed CheckoutStep = "confirmed"
)

// Product is a read-only catalog record. The conversation core never
// mutates products.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	InStock     bool     `json:"in_stock"`
	Tags        []string `json:"tags"`
}

// CartItem is one cart line, keyed by (product id, color, size).
type CartItem struct {
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedColor string  `json:"selected_color,omitempty"`
	SelectedSize  string  `json:"selected_size,omitempty"`
}

// ShippingAddress is the parsed checkout address. PostalCode is optional;
// the other four fields are required for the address to be valid.
type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Valid reports whether all required fields are present.
func (a *ShippingAddress) Valid() bool {
	if a == nil {
		return false
	}
	return a.FullName != "" && a.Phone != "" && a.Address != "" && a.City != ""
}

// ActionPayload carries the optional parameters of an Action.
type ActionPayload struct {
	Category string           `json:"category,omitempty"`
	Color    string           `json:"color,omitempty"`
	Size     string           `json:"size,omitempty"`
	Quantity int              `json:"quantity,omitempty"`
	Address  *ShippingAddress `json:"address,omitempty"`
}

// Action is an ephemeral structured intent attached to a message at
// creation time.
type Action struct {
	Type      ActionType     `json:"type"`
	Label     string         `json:"label"`
	ProductID string         `json:"product_id,omitempty"`
	Payload   *ActionPayload `json:"payload,omitempty"`
}

// Message is a single entry in the conversation log. Messages are immutable
// once appended, except for the one in-flight streaming message whose
// Content and IsStreaming fields are updated in place.
type Message struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	Sender      Sender      `json:"sender"`
	Timestamp   time.Time   `json:"timestamp"`
	Type        MessageType `json:"type"`
	Products    []Product   `json:"products,omitempty"`
	Actions     []Action    `json:"actions,omitempty"`
	IsStreaming bool        `json:"is_streaming,omitempty"`
}

// ChatTurn is one entry of the history handed to the assistant backend.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionState is the rendering-layer view of a session.
type SessionState struct {
	SessionID       string           `json:"session_id"`
	Messages        []Message        `json:"messages"`
	IsTyping        bool             `json:"is_typing"`
	CurrentQuery    string           `json:"current_query,omitempty"`
	Cart            []CartItem       `json:"cart"`
	CartTotal       float64          `json:"cart_total"`
	CheckoutStep    CheckoutStep     `json:"checkout_step"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	OrderNumber     string           `json:"order_number,omitempty"`
	Latitude        *float64         `json:"latitude,omitempty"`
	Longitude       *float64         `json:"longitude,omitempty"`
	City            string           `json:"city,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Order is the durable record written when an order is placed.
type Order struct {
	OrderNumber string           `json:"order_number"`
	SessionID   string           `json:"session_id"`
	Items       []CartItem       `json:"items"`
	Total       float64          `json:"total"`
	Address     *ShippingAddress `json:"address,omitempty"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}
