package contract

import "strings"

// UnsetMarker is the wire-level sentinel the resolver passes for fields the
// user never mentioned. It exists only in resolver argument maps and the UI
// form snapshot; inside the core, absence is carried by FieldValue.
const UnsetMarker = "unset"

// FieldValue distinguishes "the user said nothing about this field" from a
// concrete value. The zero value is unset.
type FieldValue struct {
	value string
	set   bool
}

func Value(v string) FieldValue {
	return FieldValue{value: v, set: true}
}

func Unset() FieldValue {
	return FieldValue{}
}

// FromArg interprets a raw resolver argument: a missing or non-string value,
// blank text, or the unset marker (case-insensitive) all mean unset.
func FromArg(raw any) FieldValue {
	s, ok := raw.(string)
	if !ok {
		return Unset()
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, UnsetMarker) {
		return Unset()
	}
	return Value(s)
}

func (f FieldValue) IsSet() bool {
	return f.set
}

func (f FieldValue) Value() string {
	return f.value
}

// StoreValue is what gets persisted: the value, or the literal marker for an
// unset field, since every column of the schema is always present.
func (f FieldValue) StoreValue() string {
	if !f.set {
		return UnsetMarker
	}
	return f.value
}

// Wire names of the six interaction fields, as declared to the resolver and
// as keyed in the UI form snapshot.
const (
	ArgHCPName   = "hcp_name"
	ArgType      = "type"
	ArgDate      = "date"
	ArgTopics    = "topics"
	ArgSentiment = "sentiment"
	ArgOutcomes  = "outcomes"
)

// FieldArgNames lists the six wire names in canonical order.
var FieldArgNames = []string{ArgHCPName, ArgType, ArgDate, ArgTopics, ArgSentiment, ArgOutcomes}

// InteractionFields is the six-field patch shared by the log and edit
// operations. Each field independently holds a value or is unset.
type InteractionFields struct {
	HCPName   FieldValue
	Type      FieldValue
	Date      FieldValue
	Topics    FieldValue
	Sentiment FieldValue
	Outcomes  FieldValue
}

// FieldsFromArgs decodes a resolver argument map into InteractionFields.
func FieldsFromArgs(args map[string]any) InteractionFields {
	return InteractionFields{
		HCPName:   FromArg(args[ArgHCPName]),
		Type:      FromArg(args[ArgType]),
		Date:      FromArg(args[ArgDate]),
		Topics:    FromArg(args[ArgTopics]),
		Sentiment: FromArg(args[ArgSentiment]),
		Outcomes:  FromArg(args[ArgOutcomes]),
	}
}

// HasChanges reports whether any field carries a concrete value.
func (f InteractionFields) HasChanges() bool {
	for _, fv := range []FieldValue{f.HCPName, f.Type, f.Date, f.Topics, f.Sentiment, f.Outcomes} {
		if fv.IsSet() {
			return true
		}
	}
	return false
}

// InteractionRecord is one persisted encounter with a provider.
type InteractionRecord struct {
	ID        int64
	HCPName   string
	Type      string
	Date      string
	Topics    string
	Sentiment string
	Outcomes  string
}

// DirectoryEntry is read-only provider reference data.
type DirectoryEntry struct {
	Name        string
	Specialty   string
	Institution string
}

// Invocation is one resolver-selected call to a named operation.
type Invocation struct {
	ID   string         `json:"id"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of one invocation. Output is always a
// human-readable string; operation failures live there, never in a Go error,
// because the resolver expects textual feedback for every invocation.
type ToolResult struct {
	Tool     string `json:"tool"`
	Output   string `json:"output"`
	RecordID int64  `json:"record_id,omitempty"`
}

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn-history entry, kept free of model-SDK types so any
// resolver implementation can consume it.
type Message struct {
	Role       Role         `json:"role"`
	Content    string       `json:"content"`
	ToolCalls  []Invocation `json:"tool_calls,omitempty"`
	ToolCallID string       `json:"tool_call_id,omitempty"`
}

// Step is one resolver output: either invocations to execute, in the order
// the resolver emitted them, or a final message in the resolver's own words.
type Step struct {
	Message     string
	Invocations []Invocation
}

// TurnResult is what one conversational turn returns to the caller.
// FormData snapshots the arguments of the last log or edit invocation
// executed this turn, keyed by exactly the six field names, each a concrete
// value or the unset marker; nil when no mutation occurred.
type TurnResult struct {
	Response string            `json:"response"`
	FormData map[string]string `json:"form_data"`
}
