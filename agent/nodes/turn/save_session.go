package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	statex "github.com/medrep/hcp-crm-agent/agent/state"
)

// maxHistoryMessages bounds the persisted conversation context per session.
const maxHistoryMessages = 40

// SaveSession persists the updated history and focus pointer. The session is
// advisory context, so a save failure is logged rather than failing the
// turn; the record-store mutations already happened.
func SaveSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.History = in.History
	in.Session.TrimHistory(maxHistoryMessages)
	in.Session.Touch(in.Now)

	if err := store.Save(ctx, in.Session); err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("session save failed")
	}
	return in, nil
}
