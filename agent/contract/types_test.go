package contract

import (
	"reflect"
	"testing"
)

func TestFromArg(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     any
		wantSet bool
		want    string
	}{
		{name: "concrete value", raw: "Dr. Chen", wantSet: true, want: "Dr. Chen"},
		{name: "marker", raw: "unset", wantSet: false},
		{name: "marker uppercase", raw: "UNSET", wantSet: false},
		{name: "blank", raw: "   ", wantSet: false},
		{name: "missing", raw: nil, wantSet: false},
		{name: "non-string", raw: 7, wantSet: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fv := FromArg(tc.raw)
			if fv.IsSet() != tc.wantSet {
				t.Fatalf("IsSet() = %v, want %v", fv.IsSet(), tc.wantSet)
			}
			if tc.wantSet && fv.Value() != tc.want {
				t.Fatalf("Value() = %q, want %q", fv.Value(), tc.want)
			}
		})
	}
}

func TestStoreValueUsesMarkerForUnset(t *testing.T) {
	t.Parallel()

	if got := Unset().StoreValue(); got != UnsetMarker {
		t.Fatalf("StoreValue() = %q, want marker", got)
	}
	if got := Value("call").StoreValue(); got != "call" {
		t.Fatalf("StoreValue() = %q, want %q", got, "call")
	}
}

func TestFormSnapshotCoversAllSixFields(t *testing.T) {
	t.Parallel()

	snap := FormSnapshot(map[string]any{
		ArgHCPName: "Dr. Chen",
		ArgDate:    "2026-08-30",
		ArgTopics:  "unset",
	})

	want := map[string]string{
		ArgHCPName:   "Dr. Chen",
		ArgType:      UnsetMarker,
		ArgDate:      "2026-08-30",
		ArgTopics:    UnsetMarker,
		ArgSentiment: UnsetMarker,
		ArgOutcomes:  UnsetMarker,
	}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("FormSnapshot() = %v, want %v", snap, want)
	}
}

func TestHasChanges(t *testing.T) {
	t.Parallel()

	if (InteractionFields{}).HasChanges() {
		t.Fatal("empty fields must report no changes")
	}
	f := InteractionFields{Outcomes: Value("sample requested")}
	if !f.HasChanges() {
		t.Fatal("set field must report changes")
	}
}
