package schema

// FinanceRecordTypeTable represents the 'finance.record_type' dictionary table
type FinanceRecordTypeTable struct {
	Table     string
	ID        string
	Name      string
	SortOrder string
}

// FinanceRecordType is the schema definition for finance.record_type
var FinanceRecordType = FinanceRecordTypeTable{
	Table:     "finance.record_type",
	ID:        "id",
	Name:      "name",
	SortOrder: "sortorder",
}

func (t FinanceRecordTypeTable) Columns() []string {
	return []string{t.ID, t.Name, t.SortOrder}
}

// FinanceRecordHistoryTable represents the 'finance.record_history' audit table
type FinanceRecordHistoryTable struct {
	Table     string
	ID        string
	RecordID  string
	UserID    string
	Action    string
	Snapshot  string
	CreatedAt string
}

// FinanceRecordHistory is the schema definition for finance.record_history
var FinanceRecordHistory = FinanceRecordHistoryTable{
	Table:     "finance.record_history",
	ID:        "id",
	RecordID:  "recordid",
	UserID:    "userid",
	Action:    "action",
	Snapshot:  "snapshot",
	CreatedAt: "createdat",
}
