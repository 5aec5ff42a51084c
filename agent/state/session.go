package state

import (
	"errors"
	"time"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
)

var (
	ErrInvalidSession  = errors.New("session id is empty")
	ErrNilSessionState = errors.New("session state is nil")
)

// SessionState is the per-session conversation context: the bounded message
// history handed to the resolver, and the focus pointer naming the record
// the conversation is currently about. The focus makes "edit the last
// interaction" an explicit session-scoped policy instead of a database-order
// side effect, so concurrent sessions each edit their own record.
type SessionState struct {
	SessionID          string              `json:"session_id"`
	History            []contractx.Message `json:"history,omitempty"`
	FocusInteractionID int64               `json:"focus_interaction_id,omitempty"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func (s *SessionState) SetFocus(interactionID int64) {
	if interactionID > 0 {
		s.FocusInteractionID = interactionID
	}
}

// TrimHistory keeps at most max messages, dropping the oldest first. Leading
// tool results are dropped too so the history never starts mid-invocation.
func (s *SessionState) TrimHistory(max int) {
	if max <= 0 || len(s.History) <= max {
		return
	}
	trimmed := s.History[len(s.History)-max:]
	for len(trimmed) > 0 && trimmed[0].Role == contractx.RoleTool {
		trimmed = trimmed[1:]
	}
	s.History = trimmed
}

func (s *SessionState) Validate() error {
	if s == nil {
		return ErrNilSessionState
	}
	if s.SessionID == "" {
		return ErrInvalidSession
	}
	return nil
}
