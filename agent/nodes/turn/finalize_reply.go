package turnnode

import (
	"fmt"
	"strings"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
)

func FinalizeReply(in *GraphState) (contractx.TurnResult, error) {
	if in == nil {
		return contractx.TurnResult{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	// The response is the resolver's own last message, never synthesized
	// here.
	response := strings.TrimSpace(in.Message)
	if response == "" {
		return contractx.TurnResult{}, fmt.Errorf("%w: resolver produced an empty response", contractx.ErrSchemaViolation)
	}

	return contractx.TurnResult{
		Response: response,
		FormData: in.FormData,
	}, nil
}
