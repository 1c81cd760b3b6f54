package influxdb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/sqlweb/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// Logger receives rejected telemetry batches. Satisfied by *logging.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// Client is the sink for per-operation telemetry.
//
// Points are buffered by the library and written in the background. A batch
// the server rejects is logged and counted; it never fails the data-layer
// operation that produced it. All methods are safe for concurrent use.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	bucket   string
	logger   Logger

	closed atomic.Bool
	failed atomic.Int64
}

// Connect pings the server and prepares the non-blocking write API for the
// configured bucket. Write failures are reported to logger, which may be nil.
//
// Returns:
//   - *Client: Ready sink, to be closed by the caller
//   - error: ErrDisabled when telemetry is off, ErrUnreachable when the ping fails
func Connect(ctx context.Context, cfg config.InfluxDBConfig, logger Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := ping(pingCtx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		bucket:   cfg.Bucket,
		logger:   logger,
	}
	go c.logRejectedBatches(c.writeAPI.Errors())

	return c, nil
}

// clientOptions maps the batch settings onto library options, falling back
// to the defaults for non-positive values.
func clientOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flush := time.Duration(cfg.FlushInterval) * time.Second
	if flush <= 0 {
		flush = defaultFlushInterval
	}

	// #nosec G115 -- both values are positive
	return influxdb2.DefaultOptions().
		SetBatchSize(uint(batchSize)).
		SetFlushInterval(uint(flush.Milliseconds()))
}

func ping(ctx context.Context, client influxdb2.Client) error {
	ready, err := client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ready {
		return errors.New("server not ready")
	}
	return nil
}

// logRejectedBatches drains the write error channel until the client closes.
func (c *Client) logRejectedBatches(errs <-chan error) {
	for err := range errs {
		n := c.failed.Add(1)
		if c.logger != nil {
			c.logger.Warn("telemetry batch rejected",
				"bucket", c.bucket,
				"rejected_batches", n,
				"error", err,
			)
		}
	}
}

// Close flushes buffered points and releases the client. Later calls are no-ops.
func (c *Client) Close() error {
	if c.client == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// HealthCheck pings the server. /health reports the result.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrClosed
	}

	checkCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := ping(checkCtx, c.client); err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	return nil
}

// IsConnected reports whether the sink accepts points.
func (c *Client) IsConnected() bool {
	return c != nil && c.client != nil && !c.closed.Load()
}

// RejectedBatches returns the number of batches the server has refused.
func (c *Client) RejectedBatches() int64 {
	return c.failed.Load()
}
