package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/sqlweb/internal/activity"
)

// tableParam returns the {table} path parameter, trimmed.
func tableParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "table"))
}

// record reports a completed store call to the activity recorder.
func (s *Server) record(r *http.Request, start time.Time, e activity.Entry) {
	e.Duration = time.Since(start)
	e.RequestID = requestIDFrom(r.Context())
	s.activity.Record(e)
}

// handleListTables returns every user table with its row count.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tables, err := s.store.ListTables(r.Context())
	s.record(r, start, activity.Entry{Operation: activity.OpListTables, Rows: int64(len(tables)), Err: err})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"tables": tables})
}

// handleTableSchema returns the columns and sample rows of a table.
func (s *Server) handleTableSchema(w http.ResponseWriter, r *http.Request) {
	table := tableParam(r)

	start := time.Now()
	schema, err := s.store.TableSchema(r.Context(), table)
	entry := activity.Entry{Operation: activity.OpTableSchema, Table: table, Err: err}
	if schema != nil {
		entry.Rows = int64(len(schema.SampleRows))
	}
	s.record(r, start, entry)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, schema)
}

// handleCreateTable creates a table unless it already exists.
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cols, err := req.definition()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	start := time.Now()
	result, err := s.store.CreateTable(r.Context(), req.TableName, cols)
	s.record(r, start, activity.Entry{
		Operation: activity.OpCreateTable,
		Table:     strings.TrimSpace(req.TableName),
		Err:       err,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, result)
}

// handleInsertRow inserts one row.
func (s *Server) handleInsertRow(w http.ResponseWriter, r *http.Request) {
	var req insertRowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	table := tableParam(r)
	start := time.Now()
	affected, err := s.store.InsertRow(r.Context(), table, req.Values)
	s.record(r, start, activity.Entry{Operation: activity.OpInsertRows, Table: table, Rows: affected, Err: err})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"rowsAffected": affected})
}

// handleDeleteRows deletes the rows matching the given conditions.
func (s *Server) handleDeleteRows(w http.ResponseWriter, r *http.Request) {
	var req deleteRowsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	table := tableParam(r)
	start := time.Now()
	affected, err := s.store.DeleteRows(r.Context(), table, req.Conditions, req.DeleteAll)
	s.record(r, start, activity.Entry{Operation: activity.OpDeleteRows, Table: table, Rows: affected, Err: err})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"rowsAffected": affected})
}

// handleDropTable drops a table once the caller confirms.
func (s *Server) handleDropTable(w http.ResponseWriter, r *http.Request) {
	var req dropTableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	table := tableParam(r)
	start := time.Now()
	err := s.store.DropTable(r.Context(), table)
	s.record(r, start, activity.Entry{Operation: activity.OpDropTable, Table: table, Err: err})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"message": fmt.Sprintf("Table '%s' dropped.", table)})
}
