// Package tool implements the callable operation set: logging, editing, and
// searching provider interactions, plus the compliance scan. Every operation
// reports its outcome as text inside the ToolResult, including failures, so
// the resolver always receives usable feedback.
package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
)

const (
	ToolLogInteraction  = "log_interaction"
	ToolEditInteraction = "edit_interaction"
	ToolSearchHCP       = "search_hcp"
	ToolCheckCompliance = "check_compliance"
)

// IsMutation reports whether a tool creates or modifies interaction records.
// The turn snapshot tracks only these.
func IsMutation(tool string) bool {
	return tool == ToolLogInteraction || tool == ToolEditInteraction
}

// Executor runs one invocation. FocusID addresses the session's focus record
// for edits; zero means no focus, falling back to the most recent row.
// The returned error is reserved for programming faults; operation failures
// are folded into the result text.
type Executor func(ctx context.Context, inv contractx.Invocation, focusID int64) (contractx.ToolResult, error)

// Catalog builds the capability declaration handed to the resolver together
// with the executor that backs it.
func Catalog(store contractx.RecordStore) ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(store)
}

func NewExecutor(store contractx.RecordStore) Executor {
	return func(ctx context.Context, inv contractx.Invocation, focusID int64) (contractx.ToolResult, error) {
		switch inv.Tool {
		case ToolLogInteraction:
			return executeLog(ctx, store, inv.Args)
		case ToolEditInteraction:
			return executeEdit(ctx, store, inv.Args, focusID)
		case ToolSearchHCP:
			return executeSearch(ctx, store, inv.Args)
		case ToolCheckCompliance:
			return executeCompliance(inv.Args)
		default:
			return contractx.ToolResult{
				Tool:   inv.Tool,
				Output: fmt.Sprintf("operation %q is not available", inv.Tool),
			}, nil
		}
	}
}

func interactionFieldParams(required bool) map[string]*schema.ParameterInfo {
	return map[string]*schema.ParameterInfo{
		contractx.ArgHCPName: {
			Type:     schema.String,
			Desc:     "Full name of the healthcare provider. Pass \"unset\" if not mentioned.",
			Required: required,
		},
		contractx.ArgType: {
			Type: schema.String,
			Desc: "Interaction type, e.g. visit, call, email. Pass \"unset\" if not mentioned.",
		},
		contractx.ArgDate: {
			Type: schema.String,
			Desc: "Interaction date in YYYY-MM-DD form. Pass \"unset\" if not mentioned.",
		},
		contractx.ArgTopics: {
			Type: schema.String,
			Desc: "Topics discussed. Pass \"unset\" if not mentioned.",
		},
		contractx.ArgSentiment: {
			Type: schema.String,
			Desc: "Provider sentiment. Pass \"unset\" if not mentioned.",
		},
		contractx.ArgOutcomes: {
			Type: schema.String,
			Desc: "Outcomes or follow-ups. Pass \"unset\" if not mentioned.",
		},
	}
}

// Infos declares the four operations, their names, and argument schemas.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name:        ToolLogInteraction,
			Desc:        "Log a NEW interaction with a healthcare provider. Only fill fields the user explicitly mentioned; pass \"unset\" for the rest. Never guess values.",
			ParamsOneOf: schema.NewParamsOneOfByParams(interactionFieldParams(true)),
		},
		{
			Name:        ToolEditInteraction,
			Desc:        "Edit the interaction currently being discussed (the last one logged). Use when the user says change, update, correct, or \"it was actually\". Only pass the fields that changed; pass \"unset\" for everything else.",
			ParamsOneOf: schema.NewParamsOneOfByParams(interactionFieldParams(false)),
		},
		{
			Name: ToolSearchHCP,
			Desc: "Search the provider directory by name to verify an HCP exists.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name_query": {Type: schema.String, Desc: "Name or name fragment to search for", Required: true},
			}),
		},
		{
			Name: ToolCheckCompliance,
			Desc: "Scan interaction notes for restricted promotional terms. Use before logging when the user discusses drug efficacy.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"text": {Type: schema.String, Desc: "Text to scan", Required: true},
			}),
		},
	}
}
