package influxdb

import "errors"

// Errors returned by the telemetry sink. sqlweb treats every one of them as
// "run without telemetry": none reaches an API caller.
var (
	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: telemetry disabled")

	// ErrUnreachable is returned by Connect when the server does not answer
	// the startup ping.
	ErrUnreachable = errors.New("influxdb: server unreachable")

	// ErrClosed is returned by HealthCheck once Close has run.
	ErrClosed = errors.New("influxdb: client closed")
)
