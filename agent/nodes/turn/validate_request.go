// Package turnnode holds the node functions of the turn-handling graph. One
// GraphState instance travels the graph per conversational turn.
package turnnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	statex "github.com/medrep/hcp-crm-agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

// ExecutedInvocation pairs an invocation with its result, in execution order.
type ExecutedInvocation struct {
	Invocation contractx.Invocation
	Result     contractx.ToolResult
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.SessionState
	History []contractx.Message

	Executed []ExecutedInvocation
	Message  string
	FormData map[string]string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
