package assistant

import (
	"context"
	"fmt"
)

// Mock is a deterministic assistant for tests and offline development.
type Mock struct {
	// Reply, when non-empty, is returned verbatim.
	FixedReply string
	// Err, when set, is returned instead of a reply.
	Err error
}

var _ Assistant = (*Mock)(nil)

// NewMock creates a mock assistant that echoes the prompt.
func NewMock() *Mock {
	return &Mock{}
}

// Reply returns the configured reply, or echoes the prompt.
func (m *Mock) Reply(ctx context.Context, req *Request) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.FixedReply != "" {
		return m.FixedReply, nil
	}
	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(req.Message, 100)), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
