package tool

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	"github.com/rs/zerolog/log"
)

func executeEdit(ctx context.Context, store contractx.InteractionStore, args map[string]any, focusID int64) (contractx.ToolResult, error) {
	fields := contractx.FieldsFromArgs(args)
	if !fields.HasChanges() {
		// Store must not be touched for an empty update set.
		return contractx.ToolResult{
			Tool:   ToolEditInteraction,
			Output: "No changes requested.",
		}, nil
	}

	var (
		id  = focusID
		err error
	)
	if focusID > 0 {
		err = store.UpdateInteraction(ctx, focusID, fields)
	} else {
		id, err = store.UpdateLatestInteraction(ctx, fields)
	}

	switch {
	case errors.Is(err, contractx.ErrNotFound):
		return contractx.ToolResult{
			Tool:   ToolEditInteraction,
			Output: "No interaction exists to edit yet.",
		}, nil
	case err != nil:
		log.Warn().Err(err).Str("tool", ToolEditInteraction).Int64("focus_id", focusID).Msg("update interaction failed")
		return contractx.ToolResult{
			Tool:   ToolEditInteraction,
			Output: fmt.Sprintf("Error updating interaction: %v", err),
		}, nil
	}

	return contractx.ToolResult{
		Tool:     ToolEditInteraction,
		Output:   fmt.Sprintf("Interaction #%d updated.", id),
		RecordID: id,
	}, nil
}
