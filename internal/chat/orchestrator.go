package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/assistant"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/catalog"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/geo"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/guardrails"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/metrics"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/store"
)

var weatherKeywords = []string{"weather", "temperature", "forecast"}

func isWeatherQuery(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range weatherKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Orchestrator routes free text and structured actions against session state.
// It is safe for concurrent use across sessions; per-session ordering comes
// from the session lock and the busy guard.
type Orchestrator struct {
	catalog   *catalog.Catalog
	geo       *geo.Resolver
	assistant assistant.Assistant
	guard     *guardrails.Engine
	orders    store.OrderStore
	metrics   *metrics.Metrics
	log       zerolog.Logger

	startDelay   time.Duration
	wordInterval time.Duration
}

// Options configures an Orchestrator.
type Options struct {
	Catalog   *catalog.Catalog
	Geo       *geo.Resolver
	Assistant assistant.Assistant
	Guard     *guardrails.Engine
	Orders    store.OrderStore
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger

	// StartDelay precedes the first streamed token; WordInterval paces the
	// rest. Zero values fall back to the reference cadence.
	StartDelay   time.Duration
	WordInterval time.Duration
}

// NewOrchestrator creates the session orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.StartDelay == 0 {
		opts.StartDelay = 300 * time.Millisecond
	}
	if opts.WordInterval == 0 {
		opts.WordInterval = 80 * time.Millisecond
	}
	return &Orchestrator{
		catalog:      opts.Catalog,
		geo:          opts.Geo,
		assistant:    opts.Assistant,
		guard:        opts.Guard,
		orders:       opts.Orders,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		startDelay:   opts.StartDelay,
		wordInterval: opts.WordInterval,
	}
}

// SendMessage routes one free-text user turn. Precedence: address capture for
// an open checkout, weather location prompt, geocode loop-back, then the
// assistant call with streamed reply.
func (o *Orchestrator) SendMessage(ctx context.Context, s *Session, content string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.busy {
		s.mu.Unlock()
		return ErrStreamInProgress
	}

	// Address capture: a parseable address while checkout is open dispatches
	// provide_address without contacting the assistant. Unparseable text
	// falls through and is treated as an ordinary query.
	if s.checkoutStep == domain.CheckoutAddress {
		if addr := ParseAddress(content); addr != nil {
			s.appendLocked(userMessage(content))
			o.dispatchLocked(s, domain.Action{
				Type:    domain.ActionProvideAddress,
				Payload: &domain.ActionPayload{Address: addr},
			})
			s.mu.Unlock()
			return nil
		}
	}

	history := s.historyLocked()
	s.appendLocked(userMessage(content))
	s.currentQuery = content
	s.isTyping = true
	o.metrics.IncMessages()

	// Weather queries without known coordinates ask for a city once.
	if isWeatherQuery(content) && !s.hasLocation() && !s.locationPrompted {
		s.locationPrompted = true
		s.pendingQuery = content
		s.appendLocked(assistantMessage(
			"🌤️ To give you weather-based advice, please enter your city (e.g., Karachi, Lahore, Islamabad):",
			domain.MessageTypeText))
		s.isTyping = false
		s.mu.Unlock()
		return nil
	}

	// After the city prompt, the next turn is geocoded and the pending query
	// is re-routed through the same entry point.
	if s.locationPrompted && !s.hasLocation() {
		pending := s.pendingQuery
		if pending == "" {
			pending = content
		}
		s.busy = true
		s.mu.Unlock()

		coords, err := o.geo.Geocode(ctx, content)

		s.mu.Lock()
		s.busy = false
		if s.closed {
			s.mu.Unlock()
			return ErrSessionClosed
		}
		if err != nil {
			o.log.Debug().Err(err).Str("city", content).Msg("forward geocoding failed")
			s.appendLocked(assistantMessage(
				"⚠️ Sorry, I couldn't find that city. Please try again or enable location access.",
				domain.MessageTypeText))
			s.isTyping = false
			s.mu.Unlock()
			return nil
		}
		s.latitude = &coords.Latitude
		s.longitude = &coords.Longitude
		s.locationPrompted = false
		s.pendingQuery = ""
		s.isTyping = false
		s.mu.Unlock()

		go o.resolveCity(s, coords.Latitude, coords.Longitude)
		return o.SendMessage(ctx, s, pending)
	}

	prompt := fmt.Sprintf("%s\n\nContext: User has %d items in cart. Checkout step: %s",
		content, len(s.cart), s.checkoutStep)
	lat, lon := s.latitude, s.longitude
	s.busy = true
	s.mu.Unlock()

	reply, err := o.produceReply(ctx, &assistant.Request{
		Message:   prompt,
		Latitude:  lat,
		Longitude: lon,
		History:   history,
	}, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	reply = strings.TrimSpace(reply)
	if err != nil || reply == "" || strings.HasPrefix(reply, assistant.WarningPrefix) {
		if err != nil {
			o.log.Warn().Err(err).Msg("assistant call failed")
		}
		o.metrics.IncAssistantFailures()
		s.busy = false
		s.isTyping = false
		fallback := reply
		if fallback == "" {
			fallback = assistant.WarningPrefix + " Sorry, no response from assistant."
		}
		s.appendLocked(assistantMessage(fallback, domain.MessageTypeText))
		return nil
	}

	products := o.catalog.Find(content, reply)
	o.streamLocked(s, reply, func(msg *domain.Message) {
		if len(products) == 0 {
			return
		}
		msg.Type = domain.MessageTypeProduct
		msg.Products = products
		msg.Actions = []domain.Action{
			{Type: domain.ActionViewCart, Label: "View Cart"},
			{Type: domain.ActionContinueShopping, Label: "Browse More"},
		}
	})
	return nil
}

// produceReply screens the input through the guardrails and calls the
// assistant. A blocked message yields the fixed refusal without an RPC.
func (o *Orchestrator) produceReply(ctx context.Context, req *assistant.Request, rawInput string) (string, error) {
	if o.guard != nil && o.guard.Blocked(ctx, rawInput) {
		o.metrics.IncBlockedInputs()
		o.log.Info().Msg("message blocked by guardrails")
		return "🚫 I'm sorry, but I can't respond to that request.", nil
	}
	return o.assistant.Reply(ctx, req)
}

// resolveCity best-effort reverse geocodes for display. Callers run it
// detached so the lookup never delays a user turn; failures leave the city
// empty.
func (o *Orchestrator) resolveCity(s *Session, lat, lon float64) {
	if o.geo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	name, err := o.geo.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		o.log.Debug().Err(err).Msg("reverse geocoding failed")
		return
	}
	s.mu.Lock()
	if !s.closed {
		s.city = name
	}
	s.mu.Unlock()
}

// SetLocation stores browser-provided coordinates and resolves the city name.
func (o *Orchestrator) SetLocation(s *Session, lat, lon float64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.latitude = &lat
	s.longitude = &lon
	s.mu.Unlock()
	go o.resolveCity(s, lat, lon)
	return nil
}

// HandleAction dispatches a structured action synchronously.
func (o *Orchestrator) HandleAction(s *Session, action domain.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	o.dispatchLocked(s, action)
	return nil
}

// AskAboutProduct forwards a fixed question about the product to SendMessage.
func (o *Orchestrator) AskAboutProduct(ctx context.Context, s *Session, productID string) error {
	product, ok := o.catalog.ByID(productID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrProductNotFound, productID)
	}
	question := fmt.Sprintf(
		"Tell me more about %s. What are the available colors and sizes? Is it suitable for %s occasions?",
		product.Name, strings.ToLower(product.Category))
	return o.SendMessage(ctx, s, question)
}

// newOrderNumber derives a session-unique order number from the current time.
func newOrderNumber() string {
	digits := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "KH" + digits[len(digits)-8:]
}
