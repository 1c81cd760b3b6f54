package sqladmin

// TableInfo describes one user table.
type TableInfo struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

// ColumnInfo mirrors one row of SQLite's table_info pragma.
type ColumnInfo struct {
	CID        int     `json:"cid"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	NotNull    bool    `json:"notnull"`
	Default    *string `json:"default"`
	PrimaryKey bool    `json:"primary_key"`
}

// TableSchema is the column metadata of a table plus a short preview.
type TableSchema struct {
	Table      string           `json:"table"`
	Columns    []ColumnInfo     `json:"columns"`
	SampleRows []map[string]any `json:"sample_rows"`
}

// QueryResult is the outcome of a console statement.
//
// Statements that produce a result set fill Columns, Rows and RowCount.
// Other statements leave those empty and set RowsAffected.
type QueryResult struct {
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	RowCount     int              `json:"rowCount"`
	RowsAffected *int64           `json:"rowsAffected,omitempty"`
}

// IsWrite reports whether the result came from a statement without a result set.
func (r *QueryResult) IsWrite() bool {
	return r.RowsAffected != nil
}

// ColumnDefinition is one column of a CreateTable request.
type ColumnDefinition struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	PrimaryKey   bool    `json:"primaryKey,omitempty"`
	NotNull      bool    `json:"notNull,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}

// CreateTableResult reports the table created and the statement issued.
type CreateTableResult struct {
	Table string `json:"table"`
	SQL   string `json:"sql"`
}
