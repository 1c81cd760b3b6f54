package api

import (
	"net/http"
	"os"
	"runtime"
	"time"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	Database      DatabaseMetrics `json:"database"`
	MQTT          SinkMetrics     `json:"mqtt"`
	InfluxDB      SinkMetrics     `json:"influxdb"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// DatabaseMetrics describes the managed database file on disk.
type DatabaseMetrics struct {
	Path         string `json:"path"`
	Exists       bool   `json:"exists"`
	SizeBytes    int64  `json:"size_bytes"`
	WALSizeBytes int64  `json:"wal_size_bytes"`
	ModifiedAt   string `json:"modified_at,omitempty"`
}

// SinkMetrics reports an optional output.
type SinkMetrics struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

// handleMetrics returns runtime and database file metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Database: databaseMetrics(s.store.Path()),
		MQTT:     sinkMetrics(s.mqtt),
		InfluxDB: sinkMetrics(s.influx),
	}

	writeData(w, http.StatusOK, metrics)
}

// databaseMetrics stats the database file and its write-ahead log.
// A file that has not been created yet is reported, not treated as an error.
func databaseMetrics(path string) DatabaseMetrics {
	m := DatabaseMetrics{Path: path}
	if info, err := os.Stat(path); err == nil {
		m.Exists = true
		m.SizeBytes = info.Size()
		m.ModifiedAt = info.ModTime().UTC().Format(time.RFC3339)
	}
	if info, err := os.Stat(path + "-wal"); err == nil {
		m.WALSizeBytes = info.Size()
	}
	return m
}

func sinkMetrics(c Sink) SinkMetrics {
	if c == nil {
		return SinkMetrics{}
	}
	return SinkMetrics{Enabled: true, Connected: c.IsConnected()}
}
