package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// OperationMeasurement is the measurement every data-layer operation is
// recorded under.
const OperationMeasurement = "sqlweb_operations"

// WriteOperationMetric queues one completed data-layer operation. It never
// blocks; on a closed or nil client the point is dropped.
func (c *Client) WriteOperationMetric(operation, table string, duration time.Duration, rows int64, success bool) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(operationPoint(operation, table, duration, rows, success, time.Now()))
}

// operationPoint builds the point written by WriteOperationMetric.
// The table tag is omitted when empty to keep series cardinality down.
func operationPoint(operation, table string, duration time.Duration, rows int64, success bool, ts time.Time) *write.Point {
	tags := map[string]string{
		"operation": operation,
		"success":   strconv.FormatBool(success),
	}
	if table != "" {
		tags["table"] = table
	}

	return write.NewPoint(
		OperationMeasurement,
		tags,
		map[string]interface{}{
			"duration_ms": float64(duration.Microseconds()) / 1000,
			"rows":        rows,
		},
		ts,
	)
}
