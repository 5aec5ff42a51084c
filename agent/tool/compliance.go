package tool

import (
	"fmt"
	"strings"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
)

// RestrictedTerms is the fixed list the compliance scan checks, in canonical
// order. Scan results preserve this order.
var RestrictedTerms = []string{"guarantee", "cure", "miracle", "off-label"}

// Scan returns the restricted terms found in text, case-insensitively, in
// canonical list order. Pure; no I/O.
func Scan(text string) []string {
	lowered := strings.ToLower(text)
	var found []string
	for _, term := range RestrictedTerms {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}
	return found
}

func executeCompliance(args map[string]any) (contractx.ToolResult, error) {
	text, _ := args["text"].(string)
	if strings.TrimSpace(text) == "" {
		return contractx.ToolResult{
			Tool:   ToolCheckCompliance,
			Output: "Cannot run a compliance check: no text was provided.",
		}, nil
	}

	flagged := Scan(text)
	if len(flagged) == 0 {
		return contractx.ToolResult{
			Tool:   ToolCheckCompliance,
			Output: "Compliance check passed.",
		}, nil
	}

	// Advisory only: the warning goes back to the resolver, logging is
	// never blocked here.
	return contractx.ToolResult{
		Tool:   ToolCheckCompliance,
		Output: fmt.Sprintf("COMPLIANCE WARNING: found restricted terms: %s. Please rephrase before logging.", strings.Join(flagged, ", ")),
	}, nil
}
