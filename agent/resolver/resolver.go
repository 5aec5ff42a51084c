// Package resolver implements the intent-resolver boundary on a
// tool-calling chat model. The rest of the core only sees contract.Resolver;
// tests substitute deterministic stubs.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	promptx "github.com/medrep/hcp-crm-agent/agent/prompt"
	openrouterx "github.com/medrep/hcp-crm-agent/pkg/openrouter"
)

// LLMResolver resolves conversation turns with a chat model carrying the
// operation catalog as bound tools.
type LLMResolver struct {
	model einomodel.ToolCallingChatModel
	now   func() time.Time
}

var _ contractx.Resolver = (*LLMResolver)(nil)

func New(ctx context.Context, builder openrouterx.LLMBuilder, capabilities []*schema.ToolInfo) (*LLMResolver, error) {
	base, err := builder.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create chat model: %v", contractx.ErrResolver, err)
	}
	bound, err := base.WithTools(capabilities)
	if err != nil {
		return nil, fmt.Errorf("%w: bind capabilities: %v", contractx.ErrResolver, err)
	}
	return &LLMResolver{
		model: bound,
		now:   time.Now,
	}, nil
}

func (r *LLMResolver) Resolve(ctx context.Context, history []contractx.Message) (contractx.Step, error) {
	msgs := make([]*schema.Message, 0, len(history)+1)
	msgs = append(msgs, schema.SystemMessage(promptx.SteeringDirective(r.now())))
	for _, m := range history {
		msgs = append(msgs, toSchemaMessage(m))
	}

	out, err := r.model.Generate(ctx, msgs)
	if err != nil {
		return contractx.Step{}, fmt.Errorf("%w: generate: %v", contractx.ErrResolver, err)
	}
	if out == nil {
		return contractx.Step{}, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}

	invocations, err := toInvocations(out.ToolCalls)
	if err != nil {
		return contractx.Step{}, err
	}

	message := strings.TrimSpace(out.Content)
	if len(invocations) == 0 && message == "" {
		return contractx.Step{}, fmt.Errorf("%w: model produced neither message nor invocations", contractx.ErrSchemaViolation)
	}

	return contractx.Step{
		Message:     message,
		Invocations: invocations,
	}, nil
}

func toSchemaMessage(m contractx.Message) *schema.Message {
	switch m.Role {
	case contractx.RoleAssistant:
		msg := schema.AssistantMessage(m.Content, nil)
		for _, inv := range m.ToolCalls {
			args, err := json.Marshal(inv.Args)
			if err != nil {
				args = []byte("{}")
			}
			msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
				ID: inv.ID,
				Function: schema.FunctionCall{
					Name:      inv.Tool,
					Arguments: string(args),
				},
			})
		}
		return msg
	case contractx.RoleTool:
		return schema.ToolMessage(m.Content, m.ToolCallID)
	default:
		return schema.UserMessage(m.Content)
	}
}

func toInvocations(calls []schema.ToolCall) ([]contractx.Invocation, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	invocations := make([]contractx.Invocation, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		invocations = append(invocations, contractx.Invocation{
			ID:   call.ID,
			Tool: tool,
			Args: args,
		})
	}
	return invocations, nil
}
