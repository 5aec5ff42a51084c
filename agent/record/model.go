package record

import (
	"github.com/uptrace/bun"
	contractx "github.com/medrep/hcp-crm-agent/agent/contract"
)

type interactionRow struct {
	bun.BaseModel `bun:"table:interactions,alias:i"`

	ID        int64  `bun:"id,pk,autoincrement"`
	HCPName   string `bun:"hcp_name"`
	Type      string `bun:"interaction_type"`
	Date      string `bun:"interaction_date"`
	Topics    string `bun:"topics_discussed"`
	Sentiment string `bun:"sentiment"`
	Outcomes  string `bun:"outcomes"`
}

type directoryRow struct {
	bun.BaseModel `bun:"table:hcp_directory,alias:d"`

	Name      string `bun:"name"`
	Specialty string `bun:"specialty"`
	Hospital  string `bun:"hospital"`
}

func rowFromFields(f contractx.InteractionFields) *interactionRow {
	return &interactionRow{
		HCPName:   f.HCPName.StoreValue(),
		Type:      f.Type.StoreValue(),
		Date:      f.Date.StoreValue(),
		Topics:    f.Topics.StoreValue(),
		Sentiment: f.Sentiment.StoreValue(),
		Outcomes:  f.Outcomes.StoreValue(),
	}
}

// changedColumns maps only the set fields onto their column names, in column
// declaration order.
func changedColumns(f contractx.InteractionFields) []columnChange {
	var changes []columnChange
	for _, c := range []struct {
		column string
		value  contractx.FieldValue
	}{
		{"hcp_name", f.HCPName},
		{"interaction_type", f.Type},
		{"interaction_date", f.Date},
		{"topics_discussed", f.Topics},
		{"sentiment", f.Sentiment},
		{"outcomes", f.Outcomes},
	} {
		if c.value.IsSet() {
			changes = append(changes, columnChange{Column: c.column, Value: c.value.Value()})
		}
	}
	return changes
}

type columnChange struct {
	Column string
	Value  string
}
