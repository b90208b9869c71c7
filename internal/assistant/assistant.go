// Package assistant provides the conversational AI reply providers.
package assistant

import (
	"context"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// Request carries one prompt to the assistant with its session context.
type Request struct {
	Message   string            `json:"message"`
	Latitude  *float64          `json:"latitude,omitempty"`
	Longitude *float64          `json:"longitude,omitempty"`
	History   []domain.ChatTurn `json:"chat_history,omitempty"`
}

// Assistant produces a reply for a prompt. A reply that is empty or begins
// with WarningPrefix is treated as a failure by the orchestrator.
type Assistant interface {
	Reply(ctx context.Context, req *Request) (string, error)
}

// WarningPrefix marks replies the backend produced instead of an answer.
const WarningPrefix = "⚠️"
