// Package influxdb records sqlweb operation telemetry in InfluxDB.
//
// Every data-layer operation, read or write, successful or not, becomes one
// point:
//
//	sqlweb_operations,operation=insert_rows,success=true,table=users duration_ms=1.8,rows=1i
//
// Telemetry is best effort. Points are batched and written in the
// background; rejected batches are logged through the Logger given to
// Connect and counted by RejectedBatches.
//
// Usage:
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, log)
//	if err != nil {
//	    // run without telemetry
//	}
//	defer client.Close()
//
//	client.WriteOperationMetric("insert_rows", "users", elapsed, 1, true)
package influxdb
