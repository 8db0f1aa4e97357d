package schema

// FinanceCategoryTable represents the 'finance.category' table
type FinanceCategoryTable struct {
	Table     string
	ID        string
	UserID    string
	TypeID    string
	Name      string
	SortOrder string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// FinanceCategory is the schema definition for finance.category
var FinanceCategory = FinanceCategoryTable{
	Table:     "finance.category",
	ID:        "id",
	UserID:    "userid",
	TypeID:    "typeid",
	Name:      "name",
	SortOrder: "sortorder",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}

// Columns returns all standard column names
func (t FinanceCategoryTable) Columns() []string {
	return []string{t.ID, t.UserID, t.TypeID, t.Name, t.SortOrder, t.CreatedAt, t.UpdatedAt, t.DeletedAt}
}
