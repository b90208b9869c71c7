package chat

import (
	"context"
	"strings"
	"time"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// streamLocked simulates incremental arrival of a complete reply: one token
// per tick into a fresh streaming message, then exactly one onComplete call
// with the finished message. Caller holds the session lock; the stream
// goroutine re-takes it per tick so teardown can interleave.
func (o *Orchestrator) streamLocked(s *Session, reply string, onComplete func(*domain.Message)) {
	msg := assistantMessage("", domain.MessageTypeText)
	msg.IsStreaming = true
	idx := s.appendLocked(msg)
	s.isTyping = true
	s.busy = true

	words := strings.Fields(reply)
	if len(words) == 0 {
		// Nothing to reveal: complete immediately.
		o.finishStreamLocked(s, idx, onComplete)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelStream = cancel

	go o.runStream(ctx, s, idx, words, onComplete)
}

func (o *Orchestrator) runStream(ctx context.Context, s *Session, idx int, words []string, onComplete func(*domain.Message)) {
	// Short delay before the first token so the typing indicator does not
	// flash on near-instant replies.
	select {
	case <-ctx.Done():
		return
	case <-time.After(o.startDelay):
	}

	ticker := time.NewTicker(o.wordInterval)
	defer ticker.Stop()

	for i := range words {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.messages[idx].Content = strings.Join(words[:i+1], " ")
		s.mu.Unlock()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	o.finishStreamLocked(s, idx, onComplete)
	snap := s.snapshotLocked()
	persist := s.persist
	s.mu.Unlock()

	// Any snapshot saved while the reply was still streaming recorded an
	// empty message; overwrite it with the settled state.
	if persist != nil {
		persist(snap)
	}
}

// finishStreamLocked clears the streaming flags and invokes the completion
// callback. Caller holds the session lock.
func (o *Orchestrator) finishStreamLocked(s *Session, idx int, onComplete func(*domain.Message)) {
	s.messages[idx].IsStreaming = false
	s.isTyping = false
	s.busy = false
	s.cancelStream = nil
	if onComplete != nil {
		onComplete(&s.messages[idx])
	}
}
