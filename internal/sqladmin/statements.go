package sqladmin

import (
	"sort"
	"strconv"
	"strings"
)

// maxSampleRows bounds the preview returned with a table schema.
const maxSampleRows = 5

// Catalog and introspection statements. Table names are bound, not
// interpolated, wherever SQLite allows it.
const (
	listTablesSQL = `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	tableInfoSQL = `SELECT cid, name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?)
		ORDER BY cid`
)

// literalKeywords are DEFAULT values emitted verbatim instead of quoted.
var literalKeywords = map[string]bool{
	"NULL":              true,
	"TRUE":              true,
	"FALSE":             true,
	"CURRENT_TIME":      true,
	"CURRENT_DATE":      true,
	"CURRENT_TIMESTAMP": true,
}

// countRowsSQL counts the rows of a catalog table.
func countRowsSQL(table string) string {
	return "SELECT COUNT(1) FROM " + quoteIdentifier(table)
}

// sampleRowsSQL selects the preview rows of a validated table.
func sampleRowsSQL(table string) string {
	return "SELECT * FROM " + quoteIdentifier(table) + " LIMIT " + strconv.Itoa(maxSampleRows)
}

// buildCreateTable validates a table definition and renders its DDL.
func buildCreateTable(name string, columns []ColumnDefinition) (string, string, error) {
	table, err := ValidateIdentifier("table", name)
	if err != nil {
		return "", "", err
	}
	if len(columns) == 0 {
		return "", "", invalidArgument("At least one column must be defined.")
	}

	clauses := make([]string, 0, len(columns))
	for _, col := range columns {
		clause, err := columnClause(col)
		if err != nil {
			return "", "", err
		}
		clauses = append(clauses, clause)
	}

	stmt := "CREATE TABLE IF NOT EXISTS " + quoteIdentifier(table) + " (" + strings.Join(clauses, ", ") + ")"
	return table, stmt, nil
}

// columnClause renders one column definition.
func columnClause(col ColumnDefinition) (string, error) {
	name, err := ValidateIdentifier("column", col.Name)
	if err != nil {
		return "", err
	}
	typ, err := validateColumnType(name, col.Type)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(quoteIdentifier(name))
	b.WriteByte(' ')
	b.WriteString(typ)
	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if col.NotNull {
		b.WriteString(" NOT NULL")
	}
	if col.DefaultValue != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultLiteral(*col.DefaultValue))
	}
	return b.String(), nil
}

// defaultLiteral renders a DEFAULT value. DDL cannot take bound parameters,
// so anything other than a number or a known keyword becomes a quoted string.
func defaultLiteral(v string) string {
	trimmed := strings.TrimSpace(v)
	if literalKeywords[strings.ToUpper(trimmed)] {
		return strings.ToUpper(trimmed)
	}
	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return trimmed
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil && !strings.ContainsAny(trimmed, "xXnN") {
		return trimmed
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// buildInsert validates a row and renders a parameterised INSERT.
// Columns are emitted in sorted order so the statement is deterministic.
func buildInsert(name string, values map[string]any) (string, []any, error) {
	table, err := ValidateIdentifier("table", name)
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, invalidArgument("Values payload must include at least one column.")
	}

	keys, err := validatedKeys(values)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = quoteIdentifier(k.name)
		marks[i] = "?"
		args[i] = bindValue(values[k.raw])
	}

	stmt := "INSERT INTO " + quoteIdentifier(table) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return stmt, args, nil
}

// buildDelete validates a delete request and renders the statement. It
// returns the validated table name alongside.
// Non-empty conditions always produce a WHERE clause, even with deleteAll.
func buildDelete(name string, conditions map[string]any, deleteAll bool) (string, string, []any, error) {
	table, err := ValidateIdentifier("table", name)
	if err != nil {
		return "", "", nil, err
	}

	stmt := "DELETE FROM " + quoteIdentifier(table)
	if len(conditions) == 0 {
		if !deleteAll {
			return "", "", nil, invalidArgument("Specify at least one condition or enable deleteAll.")
		}
		return table, stmt, nil, nil
	}

	keys, err := validatedKeys(conditions)
	if err != nil {
		return "", "", nil, err
	}

	preds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		v := conditions[k.raw]
		if v == nil {
			preds = append(preds, quoteIdentifier(k.name)+" IS NULL")
			continue
		}
		preds = append(preds, quoteIdentifier(k.name)+" = ?")
		args = append(args, bindValue(v))
	}

	return table, stmt + " WHERE " + strings.Join(preds, " AND "), args, nil
}

// dropTableSQL validates a table name and renders an idempotent DROP.
func dropTableSQL(name string) (string, string, error) {
	table, err := ValidateIdentifier("table", name)
	if err != nil {
		return "", "", err
	}
	return table, "DROP TABLE IF EXISTS " + quoteIdentifier(table), nil
}

// columnKey pairs a map key as supplied with its trimmed, validated form.
type columnKey struct {
	raw  string
	name string
}

// validatedKeys validates every key of m as a column name and returns them
// sorted by validated name. Two keys naming the same column are rejected.
func validatedKeys(m map[string]any) ([]columnKey, error) {
	keys := make([]columnKey, 0, len(m))
	seen := make(map[string]bool, len(m))
	for raw := range m {
		name, err := ValidateIdentifier("column", raw)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, invalidArgument("Duplicate column '%s' provided.", name)
		}
		seen[name] = true
		keys = append(keys, columnKey{raw: raw, name: name})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].name < keys[j].name })
	return keys, nil
}

// cleanStatement trims a console statement and strips trailing semicolons.
func cleanStatement(sql string) (string, error) {
	cleaned := strings.TrimSpace(sql)
	cleaned = strings.TrimSpace(strings.TrimRight(cleaned, "; \t\r\n"))
	if cleaned == "" {
		return "", invalidArgument("Query cannot be empty.")
	}
	return cleaned, nil
}

// Token classes and states of the statement scanner. They follow SQLite's
// sqlite3_complete so that semicolons inside strings, comments and
// CREATE TRIGGER bodies do not end a statement.
const (
	tokSemi = iota
	tokSpace
	tokOther
	tokExplain
	tokCreate
	tokTemp
	tokTrigger
	tokEnd
)

const (
	scanInvalid = iota
	scanStart
	scanNormal
	scanExplain
	scanCreate
	scanTrigger
	scanSemi
	scanEnd
)

var scanTransitions = [8][8]int{
	//               semi        space        other        explain      create       temp         trigger      end
	scanInvalid: {scanStart, scanInvalid, scanNormal, scanExplain, scanCreate, scanNormal, scanNormal, scanNormal},
	scanStart:   {scanStart, scanStart, scanNormal, scanExplain, scanCreate, scanNormal, scanNormal, scanNormal},
	scanNormal:  {scanStart, scanNormal, scanNormal, scanNormal, scanNormal, scanNormal, scanNormal, scanNormal},
	scanExplain: {scanStart, scanExplain, scanExplain, scanNormal, scanCreate, scanNormal, scanNormal, scanNormal},
	scanCreate:  {scanStart, scanCreate, scanNormal, scanNormal, scanNormal, scanCreate, scanTrigger, scanNormal},
	scanTrigger: {scanSemi, scanTrigger, scanTrigger, scanTrigger, scanTrigger, scanTrigger, scanTrigger, scanTrigger},
	scanSemi:    {scanSemi, scanSemi, scanTrigger, scanTrigger, scanTrigger, scanTrigger, scanTrigger, scanEnd},
	scanEnd:     {scanStart, scanEnd, scanTrigger, scanTrigger, scanTrigger, scanTrigger, scanTrigger, scanTrigger},
}

// singleStatement cleans a console statement and rejects text holding more
// than one. Comments after the statement are dropped.
func singleStatement(sql string) (string, error) {
	cleaned, err := cleanStatement(sql)
	if err != nil {
		return "", err
	}
	count, end := scanStatements(cleaned)
	switch {
	case count == 0:
		return "", invalidArgument("Query cannot be empty.")
	case count > 1:
		return "", ErrMultipleStatements
	}
	return cleaned[:end], nil
}

// scanStatements returns the number of non-empty statements in sql and the
// offset just past the last token that is neither a semicolon nor blank.
func scanStatements(sql string) (int, int) {
	state, count, end := scanInvalid, 0, 0
	for i := 0; i < len(sql); {
		tok, next := nextToken(sql, i)
		if tok != tokSemi && tok != tokSpace {
			if state == scanInvalid || state == scanStart {
				count++
			}
			end = next
		}
		state = scanTransitions[state][tok]
		i = next
	}
	return count, end
}

// nextToken classifies the token starting at sql[i] and returns the index
// just past it. Unterminated strings and comments run to the end of input.
func nextToken(sql string, i int) (int, int) {
	switch c := sql[i]; {
	case c == ';':
		return tokSemi, i + 1
	case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
		return tokSpace, i + 1
	case c == '/' && strings.HasPrefix(sql[i:], "/*"):
		if end := strings.Index(sql[i+2:], "*/"); end >= 0 {
			return tokSpace, i + 2 + end + 2
		}
		return tokSpace, len(sql)
	case c == '-' && strings.HasPrefix(sql[i:], "--"):
		if end := strings.IndexByte(sql[i:], '\n'); end >= 0 {
			return tokSpace, i + end + 1
		}
		return tokSpace, len(sql)
	case c == '[':
		return tokOther, closingIndex(sql, i+1, ']')
	case c == '\'' || c == '"' || c == '`':
		return tokOther, closingIndex(sql, i+1, c)
	case isIdentByte(c):
		j := i + 1
		for j < len(sql) && isIdentByte(sql[j]) {
			j++
		}
		return keywordToken(sql[i:j]), j
	default:
		return tokOther, i + 1
	}
}

// closingIndex returns the index just past the next quote at or after i.
// A doubled quote is scanned as two adjacent quoted tokens, which classify
// the same way.
func closingIndex(sql string, i int, quote byte) int {
	if end := strings.IndexByte(sql[i:], quote); end >= 0 {
		return i + end + 1
	}
	return len(sql)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func keywordToken(word string) int {
	switch strings.ToLower(word) {
	case "create":
		return tokCreate
	case "temp", "temporary":
		return tokTemp
	case "trigger":
		return tokTrigger
	case "end":
		return tokEnd
	case "explain":
		return tokExplain
	default:
		return tokOther
	}
}
