package api

import (
	"net/http"
	"time"

	"github.com/nerrad567/sqlweb/internal/activity"
	"github.com/nerrad567/sqlweb/internal/sqladmin"
)

// handleQuery runs a single console statement.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	start := time.Now()
	result, err := s.store.ExecuteQuery(r.Context(), req.SQL)
	entry := activity.Entry{Operation: activity.OpExecute, Err: err}
	if result != nil {
		entry.Rows, entry.Mutation = resultRows(result), result.IsWrite()
	}
	s.record(r, start, entry)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, result)
}

// handleModify runs a multi-statement script in one transaction.
func (s *Server) handleModify(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	start := time.Now()
	result, err := s.store.ExecuteScript(r.Context(), req.SQL)
	entry := activity.Entry{Operation: activity.OpExecuteScript, Err: err}
	if result != nil {
		entry.Rows = resultRows(result)
	}
	s.record(r, start, entry)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, result)
}

// resultRows is the row count reported for a console result: rows
// affected for writes, rows returned for reads.
func resultRows(res *sqladmin.QueryResult) int64 {
	if res.RowsAffected != nil {
		return *res.RowsAffected
	}
	return int64(res.RowCount)
}
