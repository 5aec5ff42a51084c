package prompt

import (
	_ "embed"
	"strings"
	"time"
)

//go:embed template/assistant.txt
var assistantRaw string

// SteeringDirective renders the resolver's system prompt. The current date
// is injected so the resolver can normalize relative dates to calendar form.
func SteeringDirective(now time.Time) string {
	directive := strings.TrimSpace(assistantRaw)
	return strings.ReplaceAll(directive, "{today}", now.UTC().Format("2006-01-02"))
}
