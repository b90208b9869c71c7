// Package guardrails screens user input against the content policy before it
// reaches the assistant.
package guardrails

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine evaluates the chat content policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the policy for evaluation.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_guardrails.decision"),
		rego.Module("chat_guardrails.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the policy decision for a user message: "allow" or "block".
func (e *Engine) Evaluate(ctx context.Context, message string) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"message": message,
	}))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "allow", nil
}

// Blocked reports whether the message violates the content policy. Evaluation
// errors fail open so a broken policy never silences the assistant.
func (e *Engine) Blocked(ctx context.Context, message string) bool {
	decision, err := e.Evaluate(ctx, message)
	if err != nil {
		return false
	}
	return decision == "block"
}

// DefaultPolicy blocks competitor brand mentions, injection attempts and
// abuse keywords, mirroring the product-expert guardrails.
const DefaultPolicy = `
package chat_guardrails

import rego.v1

default decision := "allow"

decision := "block" if {
	some kw in forbidden
	contains(lower(input.message), kw)
}

forbidden := [
	"zara", "gucci", "nike", "adidas", "h&m", "louis vuitton", "prada",
	"versace", "hermes", "chanel", "balenciaga",
	"bomb", "hack", "exploit", "<script>", "</script>", "malware",
	"attack", "phish", "steal", "inject", "prompt injection", "jailbreak",
	"bypass", "rootkit", "sql", "drop table", "delete from", "update ",
	"insert into", "shutdown", "crash", "ddos", "ransomware",
	"prompt", "system instructions", "act like", "ignore previous",
]
`
