package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
	statex "github.com/medrep/hcp-crm-agent/agent/state"
	toolx "github.com/medrep/hcp-crm-agent/agent/tool"
)

type fakeResolver struct {
	steps     []contractx.Step
	err       error
	calls     int
	histories [][]contractx.Message
}

func (f *fakeResolver) Resolve(ctx context.Context, history []contractx.Message) (contractx.Step, error) {
	f.calls++
	f.histories = append(f.histories, append([]contractx.Message(nil), history...))
	if f.err != nil {
		return contractx.Step{}, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.steps) {
		return contractx.Step{}, fmt.Errorf("no resolver step left at call=%d", f.calls)
	}
	return f.steps[idx], nil
}

type updateCall struct {
	id     int64
	fields contractx.InteractionFields
}

type fakeRecordStore struct {
	nextID   int64
	inserted []contractx.InteractionFields

	updates   []updateCall
	latestID  int64
	latestErr error

	entries  []contractx.DirectoryEntry
	searches []string
}

func (f *fakeRecordStore) InsertInteraction(ctx context.Context, fields contractx.InteractionFields) (int64, error) {
	f.nextID++
	f.inserted = append(f.inserted, fields)
	return f.nextID, nil
}

func (f *fakeRecordStore) UpdateInteraction(ctx context.Context, id int64, fields contractx.InteractionFields) error {
	f.updates = append(f.updates, updateCall{id: id, fields: fields})
	return nil
}

func (f *fakeRecordStore) UpdateLatestInteraction(ctx context.Context, fields contractx.InteractionFields) (int64, error) {
	if f.latestErr != nil {
		return 0, f.latestErr
	}
	f.updates = append(f.updates, updateCall{id: f.latestID, fields: fields})
	return f.latestID, nil
}

func (f *fakeRecordStore) SearchDirectory(ctx context.Context, fragment string) ([]contractx.DirectoryEntry, error) {
	f.searches = append(f.searches, fragment)
	return f.entries, nil
}

func newTestOrchestrator(t *testing.T, sessions statex.Store, resolver contractx.Resolver, store contractx.RecordStore, cfg Config) *Orchestrator {
	t.Helper()
	o, err := New(sessions, resolver, toolx.NewExecutor(store), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestHandleTurnInvalidInput(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, statex.NewMemoryStore(), &fakeResolver{}, &fakeRecordStore{}, Config{})

	_, err := o.HandleTurn(context.Background(), "   ", "hello")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}

	_, err = o.HandleTurn(context.Background(), "s1", "   ")
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleTurnNoInvocations(t *testing.T) {
	t.Parallel()

	sessions := statex.NewMemoryStore()
	resolver := &fakeResolver{steps: []contractx.Step{
		{Message: "Hi! I can log, edit, and look up provider interactions."},
	}}
	o := newTestOrchestrator(t, sessions, resolver, &fakeRecordStore{}, Config{})

	result, err := o.HandleTurn(context.Background(), "session-1", "hello")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if result.Response != "Hi! I can log, edit, and look up provider interactions." {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	if result.FormData != nil {
		t.Fatalf("expected absent form data, got %v", result.FormData)
	}
	if resolver.calls != 1 {
		t.Fatalf("expected one resolver call, got %d", resolver.calls)
	}

	st, err := sessions.Load(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("session not saved: %v", err)
	}
	if len(st.History) != 2 {
		t.Fatalf("expected user+assistant history, got %d messages", len(st.History))
	}
}

func TestHandleTurnReconcilesLastMutation(t *testing.T) {
	t.Parallel()

	store := &fakeRecordStore{entries: []contractx.DirectoryEntry{
		{Name: "Dr. Chen", Specialty: "Cardiology", Institution: "General Hospital"},
	}}
	logArgs := map[string]any{
		contractx.ArgHCPName: "Dr. Chen",
		contractx.ArgType:    "visit",
		contractx.ArgDate:    "2026-08-30",
	}
	resolver := &fakeResolver{steps: []contractx.Step{
		{Invocations: []contractx.Invocation{
			{ID: "c1", Tool: toolx.ToolSearchHCP, Args: map[string]any{"name_query": "Chen"}},
			{ID: "c2", Tool: toolx.ToolLogInteraction, Args: logArgs},
			{ID: "c3", Tool: toolx.ToolSearchHCP, Args: map[string]any{"name_query": "Chen"}},
		}},
		{Message: "Logged your visit with Dr. Chen."},
	}}
	sessions := statex.NewMemoryStore()
	o := newTestOrchestrator(t, sessions, resolver, store, Config{})

	result, err := o.HandleTurn(context.Background(), "session-1", "log a visit with Dr. Chen today")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if result.Response != "Logged your visit with Dr. Chen." {
		t.Fatalf("unexpected response: %q", result.Response)
	}

	// The snapshot must reflect the log invocation only, not the searches.
	if result.FormData == nil {
		t.Fatal("expected a form snapshot")
	}
	if result.FormData[contractx.ArgHCPName] != "Dr. Chen" || result.FormData[contractx.ArgType] != "visit" {
		t.Fatalf("unexpected snapshot: %v", result.FormData)
	}
	if result.FormData[contractx.ArgSentiment] != contractx.UnsetMarker {
		t.Fatalf("unmentioned field must be the marker, got %q", result.FormData[contractx.ArgSentiment])
	}

	if len(store.inserted) != 1 || len(store.searches) != 2 {
		t.Fatalf("unexpected store activity: inserts=%d searches=%d", len(store.inserted), len(store.searches))
	}

	// Second resolver call must see the three tool results.
	last := resolver.histories[len(resolver.histories)-1]
	toolMsgs := 0
	for _, m := range last {
		if m.Role == contractx.RoleTool {
			toolMsgs++
		}
	}
	if toolMsgs != 3 {
		t.Fatalf("expected 3 tool results in history, got %d", toolMsgs)
	}

	st, err := sessions.Load(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("session not saved: %v", err)
	}
	if st.FocusInteractionID != 1 {
		t.Fatalf("focus should point at the logged record, got %d", st.FocusInteractionID)
	}
}

func TestHandleTurnFailedInvocationDoesNotAbort(t *testing.T) {
	t.Parallel()

	store := &fakeRecordStore{}
	resolver := &fakeResolver{steps: []contractx.Step{
		{Invocations: []contractx.Invocation{
			// Missing provider name: reported as failure text.
			{ID: "c1", Tool: toolx.ToolLogInteraction, Args: map[string]any{}},
			{ID: "c2", Tool: toolx.ToolSearchHCP, Args: map[string]any{"name_query": "Chen"}},
		}},
		{Message: "I need the provider's name to log that."},
	}}
	o := newTestOrchestrator(t, statex.NewMemoryStore(), resolver, store, Config{})

	result, err := o.HandleTurn(context.Background(), "session-1", "log it")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if result.Response == "" {
		t.Fatal("expected a response despite the failed invocation")
	}
	if len(store.searches) != 1 {
		t.Fatalf("later invocations must still run, searches=%d", len(store.searches))
	}
	if len(store.inserted) != 0 {
		t.Fatal("invalid log must not reach the store")
	}
	// The failed log still counts as the last mutation for the snapshot.
	if result.FormData == nil || result.FormData[contractx.ArgHCPName] != contractx.UnsetMarker {
		t.Fatalf("unexpected snapshot: %v", result.FormData)
	}
}

func TestHandleTurnResolverFaultAbortsTurn(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{err: fmt.Errorf("%w: model timeout", contractx.ErrResolver)}
	o := newTestOrchestrator(t, statex.NewMemoryStore(), resolver, &fakeRecordStore{}, Config{})

	_, err := o.HandleTurn(context.Background(), "session-1", "hello")
	if !errors.Is(err, contractx.ErrResolver) {
		t.Fatalf("expected resolver fault, got %v", err)
	}
}

func TestHandleTurnRoundCapIsResolverFault(t *testing.T) {
	t.Parallel()

	// Never produces a final message.
	looping := &fakeResolver{steps: []contractx.Step{
		{Invocations: []contractx.Invocation{{ID: "c1", Tool: toolx.ToolSearchHCP, Args: map[string]any{"name_query": "x"}}}},
		{Invocations: []contractx.Invocation{{ID: "c2", Tool: toolx.ToolSearchHCP, Args: map[string]any{"name_query": "x"}}}},
		{Invocations: []contractx.Invocation{{ID: "c3", Tool: toolx.ToolSearchHCP, Args: map[string]any{"name_query": "x"}}}},
	}}
	o := newTestOrchestrator(t, statex.NewMemoryStore(), looping, &fakeRecordStore{}, Config{MaxResolverRounds: 2})

	_, err := o.HandleTurn(context.Background(), "session-1", "hello")
	if !errors.Is(err, contractx.ErrResolver) {
		t.Fatalf("expected resolver fault at round cap, got %v", err)
	}
	if looping.calls != 2 {
		t.Fatalf("expected 2 resolver calls, got %d", looping.calls)
	}
}

func TestHandleTurnEditUsesSessionFocus(t *testing.T) {
	t.Parallel()

	sessions := statex.NewMemoryStore()
	seed := statex.NewSessionState("session-1", time.Now())
	seed.SetFocus(5)
	if err := sessions.Save(context.Background(), seed); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	store := &fakeRecordStore{}
	resolver := &fakeResolver{steps: []contractx.Step{
		{Invocations: []contractx.Invocation{
			{ID: "c1", Tool: toolx.ToolEditInteraction, Args: map[string]any{contractx.ArgSentiment: "positive"}},
		}},
		{Message: "Updated the sentiment."},
	}}
	o := newTestOrchestrator(t, sessions, resolver, store, Config{})

	result, err := o.HandleTurn(context.Background(), "session-1", "actually she was positive about it")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if len(store.updates) != 1 || store.updates[0].id != 5 {
		t.Fatalf("edit must target the focus record, got %+v", store.updates)
	}
	if result.FormData[contractx.ArgSentiment] != "positive" {
		t.Fatalf("unexpected snapshot: %v", result.FormData)
	}
}

func TestHandleTurnFocusCarriesAcrossTurns(t *testing.T) {
	t.Parallel()

	sessions := statex.NewMemoryStore()
	store := &fakeRecordStore{}

	logTurn := &fakeResolver{steps: []contractx.Step{
		{Invocations: []contractx.Invocation{
			{ID: "c1", Tool: toolx.ToolLogInteraction, Args: map[string]any{contractx.ArgHCPName: "Dr. Chen"}},
		}},
		{Message: "Logged."},
	}}
	o := newTestOrchestrator(t, sessions, logTurn, store, Config{})
	if _, err := o.HandleTurn(context.Background(), "session-1", "log a chat with Dr. Chen"); err != nil {
		t.Fatalf("log turn: %v", err)
	}

	editTurn := &fakeResolver{steps: []contractx.Step{
		{Invocations: []contractx.Invocation{
			{ID: "c1", Tool: toolx.ToolEditInteraction, Args: map[string]any{contractx.ArgTopics: "pricing"}},
		}},
		{Message: "Updated."},
	}}
	o2 := newTestOrchestrator(t, sessions, editTurn, store, Config{})
	if _, err := o2.HandleTurn(context.Background(), "session-1", "we discussed pricing"); err != nil {
		t.Fatalf("edit turn: %v", err)
	}

	if len(store.updates) != 1 || store.updates[0].id != 1 {
		t.Fatalf("edit must target the record logged in the earlier turn, got %+v", store.updates)
	}
}
