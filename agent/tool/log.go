package tool

import (
	"context"
	"fmt"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	"github.com/rs/zerolog/log"
)

func executeLog(ctx context.Context, store contractx.InteractionStore, args map[string]any) (contractx.ToolResult, error) {
	fields := contractx.FieldsFromArgs(args)
	if !fields.HCPName.IsSet() {
		return contractx.ToolResult{
			Tool:   ToolLogInteraction,
			Output: "Cannot log interaction: the provider name is required.",
		}, nil
	}

	id, err := store.InsertInteraction(ctx, fields)
	if err != nil {
		log.Warn().Err(err).Str("tool", ToolLogInteraction).Msg("insert interaction failed")
		return contractx.ToolResult{
			Tool:   ToolLogInteraction,
			Output: fmt.Sprintf("Error logging interaction: %v", err),
		}, nil
	}

	return contractx.ToolResult{
		Tool:     ToolLogInteraction,
		Output:   fmt.Sprintf("Interaction #%d logged successfully.", id),
		RecordID: id,
	}, nil
}
