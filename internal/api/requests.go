package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nerrad567/sqlweb/internal/sqladmin"
)

// queryRequest is the body of POST /query and POST /sql/modify.
type queryRequest struct {
	SQL string `json:"sql"`
}

func (q queryRequest) validate() error {
	if strings.TrimSpace(q.SQL) == "" {
		return errors.New("SQL statement must not be empty.")
	}
	return nil
}

// columnRequest is one column of a create-table body. DefaultValue accepts
// a string, number or boolean.
type columnRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PrimaryKey   bool   `json:"primaryKey"`
	NotNull      bool   `json:"notNull"`
	DefaultValue any    `json:"defaultValue"`
}

// createTableRequest is the body of POST /tables.
type createTableRequest struct {
	TableName string          `json:"tableName"`
	Columns   []columnRequest `json:"columns"`
}

// definition validates the request shape and converts it for the store.
// Identifier and type rules are enforced by the store itself.
func (c createTableRequest) definition() ([]sqladmin.ColumnDefinition, error) {
	if strings.TrimSpace(c.TableName) == "" {
		return nil, errors.New("Table name is required.")
	}
	if len(c.Columns) == 0 {
		return nil, errors.New("At least one column must be defined.")
	}

	cols := make([]sqladmin.ColumnDefinition, 0, len(c.Columns))
	for _, col := range c.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, errors.New("Column name must not be empty.")
		}
		if strings.TrimSpace(col.Type) == "" {
			return nil, errors.New("Column type must not be empty.")
		}
		def, err := defaultString(col.Name, col.DefaultValue)
		if err != nil {
			return nil, err
		}
		cols = append(cols, sqladmin.ColumnDefinition{
			Name:         col.Name,
			Type:         col.Type,
			PrimaryKey:   col.PrimaryKey,
			NotNull:      col.NotNull,
			DefaultValue: def,
		})
	}
	return cols, nil
}

// defaultString normalises a JSON default value to its textual form.
func defaultString(column string, v any) (*string, error) {
	var s string
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		s = val
	case json.Number:
		s = val.String()
	case bool:
		s = fmt.Sprint(val)
	default:
		return nil, fmt.Errorf("Invalid default value for column '%s'.", strings.TrimSpace(column))
	}
	return &s, nil
}

// insertRowRequest is the body of POST /tables/{table}/rows.
type insertRowRequest struct {
	Values map[string]any `json:"values"`
}

func (i insertRowRequest) validate() error {
	if len(i.Values) == 0 {
		return errors.New("Values payload must include at least one column.")
	}
	return nil
}

// deleteRowsRequest is the body of DELETE /tables/{table}/rows.
type deleteRowsRequest struct {
	Conditions map[string]any `json:"conditions"`
	DeleteAll  bool           `json:"deleteAll"`
}

func (d deleteRowsRequest) validate() error {
	if !d.DeleteAll && len(d.Conditions) == 0 {
		return errors.New("Specify at least one condition or enable deleteAll.")
	}
	return nil
}

// dropTableRequest is the body of DELETE /tables/{table}.
type dropTableRequest struct {
	Confirm bool `json:"confirm"`
}

func (d dropTableRequest) validate() error {
	if !d.Confirm {
		return errors.New("Confirmation flag must be true to drop a table.")
	}
	return nil
}

// decodeJSON decodes the request body into v. Numbers are kept as
// json.Number so integers reach the database as integers. An empty body
// decodes as an empty object.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// decodeBody decodes the request body and writes the failure response
// itself. It reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := decodeJSON(r, v)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
		return false
	}
	writeBadRequest(w, "Invalid JSON body.")
	return false
}
