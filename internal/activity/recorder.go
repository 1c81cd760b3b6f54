// Package activity fans completed data-layer operations out to the optional
// change-event publisher and telemetry writer.
package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/sqlweb/internal/infrastructure/logging"
)

// Operation names shared by events, telemetry and logs.
const (
	OpListTables    = "list_tables"
	OpTableSchema   = "table_schema"
	OpExecute       = "execute"
	OpExecuteScript = "execute_script"
	OpCreateTable   = "create_table"
	OpInsertRows    = "insert_rows"
	OpDeleteRows    = "delete_rows"
	OpDropTable     = "drop_table"
)

// mutatingOps always change the database when they succeed.
// OpExecute is decided per statement via Entry.Mutation.
var mutatingOps = map[string]bool{
	OpExecuteScript: true,
	OpCreateTable:   true,
	OpInsertRows:    true,
	OpDeleteRows:    true,
	OpDropTable:     true,
}

// EventPublisher delivers a change event for a table.
// Satisfied by *mqtt.Client.
type EventPublisher interface {
	PublishEvent(table string, payload []byte) error
}

// MetricWriter records one operation as a telemetry point.
// Satisfied by *influxdb.Client.
type MetricWriter interface {
	WriteOperationMetric(operation, table string, duration time.Duration, rows int64, success bool)
}

// Entry describes one completed operation.
type Entry struct {
	Operation string
	Table     string
	Rows      int64
	Duration  time.Duration
	Err       error
	RequestID string

	// Mutation marks an OpExecute statement that changed data.
	Mutation bool
}

// Event is the JSON payload published for a successful mutation.
type Event struct {
	ID           string    `json:"id"`
	Operation    string    `json:"operation"`
	Table        string    `json:"table,omitempty"`
	RowsAffected int64     `json:"rows_affected"`
	DurationMS   float64   `json:"duration_ms"`
	RequestID    string    `json:"request_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Recorder records operations. Both sinks are optional and a nil
// *Recorder is valid and records nothing.
//
// Sink failures are logged and never returned: the database operation has
// already completed by the time it is recorded.
type Recorder struct {
	events  EventPublisher
	metrics MetricWriter
	logger  *logging.Logger
	now     func() time.Time
}

// NewRecorder creates a Recorder. Either sink may be nil.
func NewRecorder(events EventPublisher, metrics MetricWriter, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{
		events:  events,
		metrics: metrics,
		logger:  logger.With("component", "activity"),
		now:     time.Now,
	}
}

// Record reports e to the configured sinks. Every operation produces a
// metric; only successful mutations produce a change event.
func (r *Recorder) Record(e Entry) {
	if r == nil {
		return
	}

	if r.metrics != nil {
		r.metrics.WriteOperationMetric(e.Operation, e.Table, e.Duration, e.Rows, e.Err == nil)
	}

	if r.events == nil || e.Err != nil || !(mutatingOps[e.Operation] || e.Mutation) {
		return
	}

	payload, err := json.Marshal(newEvent(e, r.now()))
	if err != nil {
		r.logger.Warn("encoding change event", "operation", e.Operation, "error", err)
		return
	}
	if err := r.events.PublishEvent(e.Table, payload); err != nil {
		r.logger.Warn("publishing change event failed",
			"operation", e.Operation,
			"table", e.Table,
			"error", err,
		)
	}
}

// newEvent builds the change event for e.
func newEvent(e Entry, ts time.Time) Event {
	return Event{
		ID:           uuid.NewString(),
		Operation:    e.Operation,
		Table:        e.Table,
		RowsAffected: e.Rows,
		DurationMS:   float64(e.Duration.Microseconds()) / 1000,
		RequestID:    e.RequestID,
		Timestamp:    ts.UTC(),
	}
}
