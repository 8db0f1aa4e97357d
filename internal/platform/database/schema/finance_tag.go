package schema

// FinanceTagTable represents the 'finance.tag' table
type FinanceTagTable struct {
	Table     string
	ID        string
	UserID    string
	Name      string
	CreatedAt string
}

// FinanceTag is the schema definition for finance.tag
var FinanceTag = FinanceTagTable{
	Table:     "finance.tag",
	ID:        "id",
	UserID:    "userid",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t FinanceTagTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Name, t.CreatedAt}
}

// FinanceRecordTagTable represents the 'finance.record_tag' join table
type FinanceRecordTagTable struct {
	Table    string
	RecordID string
	TagID    string
}

// FinanceRecordTag is the schema definition for finance.record_tag
var FinanceRecordTag = FinanceRecordTagTable{
	Table:    "finance.record_tag",
	RecordID: "recordid",
	TagID:    "tagid",
}
