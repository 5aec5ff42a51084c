package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	toolx "github.com/medrep/hcp-crm-agent/agent/tool"
)

// ResolveTurn drives the resolving/executing phases of one turn: ask the
// resolver for the next step, execute any invocations it selected in the
// order emitted, feed their textual results back, and repeat until the
// resolver produces a plain message. A single failed invocation never aborts
// the rest; only resolver faults do.
func ResolveTurn(
	ctx context.Context,
	in *GraphState,
	resolver contractx.Resolver,
	execute toolx.Executor,
	maxRounds int,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	for round := 0; round < maxRounds; round++ {
		step, err := resolver.Resolve(ctx, in.History)
		if err != nil {
			return nil, err
		}

		if len(step.Invocations) == 0 {
			in.Message = step.Message
			in.History = append(in.History, contractx.Message{
				Role:    contractx.RoleAssistant,
				Content: step.Message,
			})
			return in, nil
		}

		in.History = append(in.History, contractx.Message{
			Role:      contractx.RoleAssistant,
			Content:   step.Message,
			ToolCalls: step.Invocations,
		})

		for _, inv := range step.Invocations {
			result, err := execute(ctx, inv, in.Session.FocusInteractionID)
			if err != nil {
				return nil, fmt.Errorf("execute %s: %w", inv.Tool, err)
			}
			log.Debug().
				Str("tool", inv.Tool).
				Str("session_id", in.SessionID).
				Msg("invocation executed")

			in.Executed = append(in.Executed, ExecutedInvocation{
				Invocation: inv,
				Result:     result,
			})
			in.History = append(in.History, contractx.Message{
				Role:       contractx.RoleTool,
				Content:    result.Output,
				ToolCallID: inv.ID,
			})
			// A freshly logged record becomes the session focus right
			// away so a later edit in the same turn targets it.
			if result.RecordID > 0 {
				in.Session.SetFocus(result.RecordID)
			}
		}
	}

	return nil, fmt.Errorf("%w: no final message after %d rounds", contractx.ErrResolver, maxRounds)
}
