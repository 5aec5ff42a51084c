package turnnode

import (
	"fmt"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	toolx "github.com/medrep/hcp-crm-agent/agent/tool"
)

// ReconcileMutation scans every invocation executed this turn and snapshots
// the argument mapping of the last log or edit, which keeps the caller's UI
// form in sync with the latest mutation. Non-mutating invocations are
// ignored; a turn without mutations leaves FormData nil.
func ReconcileMutation(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	for i := len(in.Executed) - 1; i >= 0; i-- {
		if toolx.IsMutation(in.Executed[i].Invocation.Tool) {
			in.FormData = contractx.FormSnapshot(in.Executed[i].Invocation.Args)
			break
		}
	}
	return in, nil
}
