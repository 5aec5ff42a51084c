package turnnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	statex "github.com/medrep/hcp-crm-agent/agent/state"
)

func LoadSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	session, err := store.Load(ctx, in.SessionID)
	switch {
	case errors.Is(err, statex.ErrStateNotFound):
		session = statex.NewSessionState(in.SessionID, in.Now)
	case err != nil:
		return nil, fmt.Errorf("load session %s: %w", in.SessionID, err)
	}

	in.Session = session
	in.History = append(append([]contractx.Message(nil), session.History...), contractx.Message{
		Role:    contractx.RoleUser,
		Content: in.Text,
	})
	return in, nil
}
