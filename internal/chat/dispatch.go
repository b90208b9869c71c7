package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

func categoryActions() []domain.Action {
	return []domain.Action{
		{Type: domain.ActionViewDetails, Label: "Ready to Wear Collection", Payload: &domain.ActionPayload{Category: "Ready to Wear"}},
		{Type: domain.ActionViewDetails, Label: "Unstitched Collection", Payload: &domain.ActionPayload{Category: "Unstitched"}},
		{Type: domain.ActionViewDetails, Label: "Accessories", Payload: &domain.ActionPayload{Category: "Accessories"}},
	}
}

// itemLabel renders "Name (Color, Size)" with either part optional.
func itemLabel(name, color, size string) string {
	var b strings.Builder
	b.WriteString(name)
	if color != "" {
		b.WriteString(" (" + color)
		if size != "" {
			b.WriteString(", " + size)
		}
		b.WriteString(")")
	} else if size != "" {
		b.WriteString(" (" + size + ")")
	}
	return b.String()
}

// dispatchLocked interprets one structured action against cart and checkout
// state. Every branch is synchronous and never calls the assistant. Caller
// holds the session lock.
func (o *Orchestrator) dispatchLocked(s *Session, action domain.Action) {
	o.metrics.IncAction(string(action.Type))

	switch action.Type {
	case domain.ActionAddToCart:
		o.handleAddToCart(s, action)
	case domain.ActionViewCart:
		o.handleViewCart(s)
	case domain.ActionCheckout:
		o.handleCheckout(s)
	case domain.ActionViewDetails:
		o.handleViewDetails(s, action)
	case domain.ActionContinueShopping:
		msg := assistantMessage("Great! What would you like to explore today?", domain.MessageTypeText)
		msg.Actions = categoryActions()
		s.appendLocked(msg)
	case domain.ActionProvideAddress:
		o.handleProvideAddress(s, action)
	case domain.ActionPlaceOrder:
		o.handlePlaceOrder(s)
	default:
		o.log.Warn().Str("type", string(action.Type)).Msg("unknown action type")
	}
}

func (o *Orchestrator) handleAddToCart(s *Session, action domain.Action) {
	product, ok := o.catalog.ByID(action.ProductID)
	if !ok {
		o.log.Warn().Str("product_id", action.ProductID).Msg("add_to_cart for unknown product")
		return
	}

	quantity := 1
	var color, size string
	if action.Payload != nil {
		if action.Payload.Quantity > 0 {
			quantity = action.Payload.Quantity
		}
		color = action.Payload.Color
		size = action.Payload.Size
	}
	s.upsertCartLocked(product, quantity, color, size)

	msg := assistantMessage(fmt.Sprintf(
		"✅ Added %s to your cart! Quantity: %d. You now have %d items. Would you like to view your cart or continue shopping?",
		itemLabel(product.Name, color, size), quantity, len(s.cart)),
		domain.MessageTypeText)
	msg.Actions = []domain.Action{
		{Type: domain.ActionViewCart, Label: "View Cart"},
		{Type: domain.ActionContinueShopping, Label: "Continue Shopping"},
	}
	s.appendLocked(msg)
}

func (o *Orchestrator) handleViewCart(s *Session) {
	if len(s.cart) == 0 {
		msg := assistantMessage("Your cart is empty. Let me help you find something you'll love!", domain.MessageTypeText)
		msg.Actions = categoryActions()
		s.appendLocked(msg)
		return
	}

	var lines []string
	for _, item := range s.cart {
		lines = append(lines, fmt.Sprintf("• %s - PKR %.0f (Qty: %d)",
			itemLabel(item.Product.Name, item.SelectedColor, item.SelectedSize),
			item.Product.Price, item.Quantity))
	}
	msg := assistantMessage(fmt.Sprintf(
		"🛒 **Your Cart**\n\n%s\n\n**Total: PKR %.0f**\n\nWhat would you like to do?",
		strings.Join(lines, "\n"), s.cartTotalLocked()),
		domain.MessageTypeCart)
	msg.Actions = []domain.Action{
		{Type: domain.ActionCheckout, Label: "Proceed to Checkout"},
		{Type: domain.ActionContinueShopping, Label: "Continue Shopping"},
	}
	s.appendLocked(msg)
}

func (o *Orchestrator) handleCheckout(s *Session) {
	s.checkoutStep = domain.CheckoutAddress
	s.appendLocked(assistantMessage(
		"💳 **Checkout Process**\n\nPlease provide your shipping address in the following format:\n\n"+
			"Name: [Your Full Name]\nPhone: [Your Phone Number]\nAddress: [Your Complete Address]\n"+
			"City: [Your City]\nPostal Code: [Your Postal Code]",
		domain.MessageTypeCheckout))
}

func (o *Orchestrator) handleViewDetails(s *Session, action domain.Action) {
	var category string
	if action.Payload != nil {
		category = action.Payload.Category
	}
	if category == "" {
		o.log.Warn().Msg("view_details without category")
		return
	}

	products := o.catalog.ByCategory(category)
	if len(products) == 0 {
		msg := assistantMessage(fmt.Sprintf(
			"I couldn't find any %s items at the moment. Would you like to browse other categories?", category),
			domain.MessageTypeText)
		msg.Actions = categoryActions()
		s.appendLocked(msg)
		return
	}

	msg := assistantMessage(fmt.Sprintf("Here are some beautiful %s pieces for you:", category), domain.MessageTypeProduct)
	msg.Products = products
	msg.Actions = []domain.Action{
		{Type: domain.ActionViewCart, Label: "View Cart"},
		{Type: domain.ActionContinueShopping, Label: "Browse More"},
	}
	s.appendLocked(msg)
}

func (o *Orchestrator) handleProvideAddress(s *Session, action domain.Action) {
	if action.Payload == nil || !action.Payload.Address.Valid() {
		o.log.Warn().Msg("provide_address without a valid address")
		return
	}
	addr := action.Payload.Address
	s.checkoutStep = domain.CheckoutPayment
	s.shippingAddress = addr

	msg := assistantMessage(fmt.Sprintf(
		"✅ **Address Confirmed!**\n\nName: %s\nPhone: %s\nAddress: %s\nCity: %s\nPostal Code: %s\n\n"+
			"**Order Total: PKR %.0f**\n\nYour order is ready! Click \"Place Order\" to complete your purchase.",
		addr.FullName, addr.Phone, addr.Address, addr.City, addr.PostalCode, s.cartTotalLocked()),
		domain.MessageTypeCheckout)
	msg.Actions = []domain.Action{
		{Type: domain.ActionPlaceOrder, Label: "Place Order", Payload: &domain.ActionPayload{Address: addr}},
	}
	s.appendLocked(msg)
}

func (o *Orchestrator) handlePlaceOrder(s *Session) {
	orderNumber := newOrderNumber()
	total := s.cartTotalLocked()

	s.checkoutStep = domain.CheckoutConfirmed
	s.orderNumber = orderNumber
	o.metrics.IncOrdersPlaced()

	if o.orders != nil {
		order := &domain.Order{
			OrderNumber: orderNumber,
			SessionID:   s.id,
			Items:       append([]domain.CartItem(nil), s.cart...),
			Total:       total,
			Address:     s.shippingAddress,
			Status:      "pending",
			CreatedAt:   time.Now(),
		}
		// The record is fully assembled; write it detached so the store
		// call does not hold the session lock.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := o.orders.CreateOrder(ctx, order); err != nil {
				o.log.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to record order")
			}
		}()
	}

	s.cart = nil

	msg := assistantMessage(fmt.Sprintf(
		"🎉 **Order Confirmed!**\n\n**Order Number: %s**\n\nThank you for your purchase! "+
			"Your order has been successfully placed. We'll send you a confirmation email with tracking details soon.\n\n"+
			"Total Amount: PKR %.0f\n\nIs there anything else I can help you with?",
		orderNumber, total),
		domain.MessageTypeOrderConfirmation)
	msg.Actions = []domain.Action{
		{Type: domain.ActionContinueShopping, Label: "Start New Shopping"},
	}
	s.appendLocked(msg)
}
