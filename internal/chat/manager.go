package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
	"github.com/FahadImdad/khaadi-ai-chat-store/internal/store"
)

const welcomeText = "Welcome to Khaadi! I'm your personal shopping assistant. I can help you discover our " +
	"latest collection including unstitched fabrics, ready to wear, and accessories - all through our chat. " +
	"What can I help you find today?"

// Manager is the registry of live sessions. It delegates conversation
// semantics to the Orchestrator and persists best-effort snapshots to the
// session store after each operation.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	orch      *Orchestrator
	snapshots store.SessionStore
	log       zerolog.Logger
}

// NewManager creates a session manager.
func NewManager(orch *Orchestrator, sessionStore store.SessionStore, log zerolog.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		orch:      orch,
		snapshots: sessionStore,
		log:       log,
	}
}

// Create starts a new session seeded with the welcome message.
func (m *Manager) Create(ctx context.Context) *Session {
	welcome := domain.Message{
		ID:        newMessageID(),
		Content:   welcomeText,
		Sender:    domain.SenderAssistant,
		Timestamp: time.Now(),
		Type:      domain.MessageTypeWelcome,
		Actions: []domain.Action{
			{Type: domain.ActionViewDetails, Label: "Unstitched Collection", Payload: &domain.ActionPayload{Category: "Unstitched"}},
			{Type: domain.ActionViewDetails, Label: "Ready to Wear Collection", Payload: &domain.ActionPayload{Category: "Ready to Wear"}},
			{Type: domain.ActionViewDetails, Label: "Accessories", Payload: &domain.ActionPayload{Category: "Accessories"}},
		},
	}

	s := &Session{
		id:           newSessionID(),
		createdAt:    time.Now(),
		messages:     []domain.Message{welcome},
		checkoutStep: domain.CheckoutIdle,
		persist:      m.saveSnapshot,
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.persist(ctx, s)
	return s
}

// Get resolves a live session, falling back to the session store for
// sessions created by another instance.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[sessionID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	if m.snapshots != nil {
		snap, err := m.snapshots.Load(ctx, sessionID)
		if err != nil {
			m.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to load session snapshot")
		} else if snap != nil {
			s := restoreSession(snap)
			s.persist = m.saveSnapshot
			m.mu.Lock()
			// Another request may have restored it concurrently.
			if existing, ok := m.sessions[sessionID]; ok {
				m.mu.Unlock()
				return existing, nil
			}
			m.sessions[sessionID] = s
			m.mu.Unlock()
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// Close tears a session down, cancelling any in-flight stream, and removes
// its snapshot.
func (m *Manager) Close(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()

	if m.snapshots != nil {
		if err := m.snapshots.Delete(ctx, sessionID); err != nil {
			m.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete session snapshot")
		}
	}
	return nil
}

// CloseAll tears down every live session. Used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (m *Manager) persist(ctx context.Context, s *Session) {
	if m.snapshots == nil {
		return
	}
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if err := m.snapshots.Save(ctx, snap); err != nil {
		m.log.Warn().Err(err).Str("session_id", snap.SessionID).Msg("failed to save session snapshot")
	}
}

// saveSnapshot persists a prepared snapshot. The stream goroutine calls it
// once a reply has settled, so the stored state never ends on a message
// that is still streaming.
func (m *Manager) saveSnapshot(snap *store.Snapshot) {
	if m.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.snapshots.Save(ctx, snap); err != nil {
		m.log.Warn().Err(err).Str("session_id", snap.SessionID).Msg("failed to save session snapshot")
	}
}

// SendMessage routes a user turn through the orchestrator and persists the
// resulting state.
func (m *Manager) SendMessage(ctx context.Context, sessionID, content string) (domain.SessionState, error) {
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	if err := m.orch.SendMessage(ctx, s, content); err != nil {
		return domain.SessionState{}, err
	}
	m.persist(ctx, s)
	return s.Snapshot(), nil
}

// HandleAction dispatches a structured action and persists the resulting
// state.
func (m *Manager) HandleAction(ctx context.Context, sessionID string, action domain.Action) (domain.SessionState, error) {
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	if err := m.orch.HandleAction(s, action); err != nil {
		return domain.SessionState{}, err
	}
	m.persist(ctx, s)
	return s.Snapshot(), nil
}

// AskAboutProduct forwards the canned product question.
func (m *Manager) AskAboutProduct(ctx context.Context, sessionID, productID string) (domain.SessionState, error) {
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	if err := m.orch.AskAboutProduct(ctx, s, productID); err != nil {
		return domain.SessionState{}, err
	}
	m.persist(ctx, s)
	return s.Snapshot(), nil
}

// SetLocation stores browser-provided coordinates for the session.
func (m *Manager) SetLocation(ctx context.Context, sessionID string, lat, lon float64) (domain.SessionState, error) {
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	if err := m.orch.SetLocation(s, lat, lon); err != nil {
		return domain.SessionState{}, err
	}
	m.persist(ctx, s)
	return s.Snapshot(), nil
}

// State returns a session's current state.
func (m *Manager) State(ctx context.Context, sessionID string) (domain.SessionState, error) {
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return s.Snapshot(), nil
}
