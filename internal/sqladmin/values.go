package sqladmin

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// maxExactFloatInt is the largest integer a float64 represents exactly.
const maxExactFloatInt = 1 << 53

// bindValue converts a decoded JSON value into something go-sqlite3 binds
// natively. Integral json.Numbers become int64 so INTEGER columns receive
// integers; objects and arrays are stored as their JSON text.
func bindValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case float64:
		if math.Abs(val) <= maxExactFloatInt && val == math.Trunc(val) {
			return int64(val)
		}
		return val
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return val
	}
}

// scanRows reads every remaining row of rows into column→value maps.
func scanRows(rows *sql.Rows, cols []string) ([]map[string]any, error) {
	out := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = resultValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// resultValue makes a scanned value JSON friendly. BLOBs come back as
// []byte: text when valid UTF-8, base64 otherwise.
func resultValue(v any) any {
	switch val := v.(type) {
	case []byte:
		if utf8.Valid(val) {
			return string(val)
		}
		return base64.StdEncoding.EncodeToString(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return val
	}
}
