// Package orchestrator drives one conversational turn end to end: validate
// the request, load session context, run the resolve/execute loop, reconcile
// the last mutation into a form snapshot, persist the session, and hand back
// the resolver's reply.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	turnnode "github.com/medrep/hcp-crm-agent/agent/nodes/turn"
	statex "github.com/medrep/hcp-crm-agent/agent/state"
	toolx "github.com/medrep/hcp-crm-agent/agent/tool"
)

var (
	ErrInvalidMessage = turnnode.ErrInvalidMessage
	ErrInvalidSession = turnnode.ErrInvalidSession
)

const defaultMaxResolverRounds = 8

type Config struct {
	// MaxResolverRounds caps resolve/execute iterations per turn; hitting
	// the cap is reported as a resolver fault.
	MaxResolverRounds int
}

type Orchestrator struct {
	sessions statex.Store
	resolver contractx.Resolver
	execute  toolx.Executor

	graphRunner compose.Runnable[turnnode.GraphInput, contractx.TurnResult]

	maxRounds int
	now       func() time.Time
}

func New(
	sessions statex.Store,
	resolver contractx.Resolver,
	execute toolx.Executor,
	cfg Config,
) (*Orchestrator, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if resolver == nil {
		return nil, errors.New("intent resolver is required")
	}
	if execute == nil {
		return nil, errors.New("tool executor is required")
	}

	maxRounds := cfg.MaxResolverRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxResolverRounds
	}

	o := &Orchestrator{
		sessions:  sessions,
		resolver:  resolver,
		execute:   execute,
		maxRounds: maxRounds,
		now:       time.Now,
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn processes one free-text message for a session and returns the
// resolver's reply plus the last-mutation snapshot.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error) {
	return o.graphRunner.Invoke(ctx, turnnode.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
}
