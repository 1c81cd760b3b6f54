// Package mqtt publishes sqlweb change events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing change events with a configurable QoS
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Topics
//
// Every topic lives under the configured prefix (default "sqlweb"):
//
//	{prefix}/events/{table}   one message per successful mutation
//	{prefix}/events/_sql      raw console statements
//	{prefix}/system/status    retained online/offline status
//
// Dashboards subscribe to {prefix}/events/+ and refresh the affected table.
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS=true) when the broker is not local
//   - Event payloads carry table names and row counts, never row data
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishEvent("users", payload)
package mqtt
