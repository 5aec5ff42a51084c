package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	"github.com/rs/zerolog/log"
)

func executeSearch(ctx context.Context, store contractx.DirectoryStore, args map[string]any) (contractx.ToolResult, error) {
	fragment, _ := args["name_query"].(string)
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return contractx.ToolResult{
			Tool:   ToolSearchHCP,
			Output: "Cannot search the directory: a name to search for is required.",
		}, nil
	}

	entries, err := store.SearchDirectory(ctx, fragment)
	if err != nil {
		log.Warn().Err(err).Str("tool", ToolSearchHCP).Msg("directory search failed")
		return contractx.ToolResult{
			Tool:   ToolSearchHCP,
			Output: fmt.Sprintf("Error searching the directory: %v", err),
		}, nil
	}

	if len(entries) == 0 {
		return contractx.ToolResult{
			Tool:   ToolSearchHCP,
			Output: fmt.Sprintf("No HCP matching %q found in the directory.", fragment),
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching provider(s):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", e.Name, e.Specialty, e.Institution)
	}
	return contractx.ToolResult{
		Tool:   ToolSearchHCP,
		Output: strings.TrimRight(b.String(), "\n"),
	}, nil
}
