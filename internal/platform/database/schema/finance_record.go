package schema

// FinanceRecordTable represents the 'finance.record' table
type FinanceRecordTable struct {
	Table      string
	ID         string
	UserID     string
	TypeID     string
	CategoryID string
	Amount     string
	Note       string
	OccurredOn string
	CreatedAt  string
	UpdatedAt  string
	DeletedAt  string
}

// FinanceRecord is the schema definition for finance.record
var FinanceRecord = FinanceRecordTable{
	Table:      "finance.record",
	ID:         "id",
	UserID:     "userid",
	TypeID:     "typeid",
	CategoryID: "categoryid",
	Amount:     "amount",
	Note:       "note",
	OccurredOn: "occurredon",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
	DeletedAt:  "deletedat",
}

// Columns returns all standard column names
func (t FinanceRecordTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.TypeID, t.CategoryID, t.Amount, t.Note,
		t.OccurredOn, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
