// Package metrics exposes the service counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for the chat core.
type Metrics struct {
	MessagesTotal     prometheus.Counter
	AssistantFailures prometheus.Counter
	BlockedInputs     prometheus.Counter
	OrdersPlaced      prometheus.Counter
	ActionsTotal      *prometheus.CounterVec
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "khaadi_chat_messages_total",
			Help: "User messages accepted by the session orchestrator.",
		}),
		AssistantFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "khaadi_chat_assistant_failures_total",
			Help: "Assistant calls that ended in a user-visible apology.",
		}),
		BlockedInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "khaadi_chat_blocked_inputs_total",
			Help: "User messages refused by the content guardrails.",
		}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "khaadi_chat_orders_placed_total",
			Help: "Orders confirmed through the checkout flow.",
		}),
		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "khaadi_chat_actions_total",
			Help: "Structured actions dispatched, by type.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.MessagesTotal, m.AssistantFailures, m.BlockedInputs, m.OrdersPlaced, m.ActionsTotal)
	return m
}

// IncMessages is nil-safe.
func (m *Metrics) IncMessages() {
	if m != nil {
		m.MessagesTotal.Inc()
	}
}

// IncAssistantFailures is nil-safe.
func (m *Metrics) IncAssistantFailures() {
	if m != nil {
		m.AssistantFailures.Inc()
	}
}

// IncBlockedInputs is nil-safe.
func (m *Metrics) IncBlockedInputs() {
	if m != nil {
		m.BlockedInputs.Inc()
	}
}

// IncOrdersPlaced is nil-safe.
func (m *Metrics) IncOrdersPlaced() {
	if m != nil {
		m.OrdersPlaced.Inc()
	}
}

// IncAction is nil-safe.
func (m *Metrics) IncAction(actionType string) {
	if m != nil {
		m.ActionsTotal.WithLabelValues(actionType).Inc()
	}
}
