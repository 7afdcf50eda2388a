package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// LogSink receives batches of persisted log records.
type LogSink interface {
	WriteLogs(ctx context.Context, batch []models.SystemLog) error
}

// DBHandler is an slog.Handler that batches ERROR+ records into a LogSink.
type DBHandler struct {
	core  *dbCore
	attrs []slog.Attr
}

type dbCore struct {
	sink     LogSink
	mu       sync.Mutex
	buffer   []models.SystemLog
	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	flushing sync.WaitGroup
}

func NewDBHandler(sink LogSink) *DBHandler {
	return newDBHandler(sink, flushInterval)
}

func newDBHandler(sink LogSink, interval time.Duration) *DBHandler {
	core := &dbCore{
		sink:    sink,
		buffer:  make([]models.SystemLog, 0, batchSize),
		ticker:  time.NewTicker(interval),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go core.flushLoop()
	return &DBHandler{core: core}
}

func (c *dbCore) flushLoop() {
	defer close(c.stopped)
	for {
		select {
		case <-c.ticker.C:
			c.flush()
		case <-c.done:
			c.flush()
			return
		}
	}
}

func (c *dbCore) flush() {
	c.mu.Lock()
	if len(c.buffer) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.buffer
	c.buffer = make([]models.SystemLog, 0, batchSize)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Warn keeps the failure out of this handler.
	if err := c.sink.WriteLogs(ctx, batch); err != nil {
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes buffered records and waits for the flush goroutines to exit.
func (h *DBHandler) Stop() {
	c := h.core
	c.stopOnce.Do(func() {
		c.ticker.Stop()
		c.mu.Lock()
		close(c.done)
		c.mu.Unlock()
		<-c.stopped
		c.flushing.Wait()
	})
}

// Enabled only handles ERROR and above.
func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "subject":
			s := a.Value.String()
			entry.Subject = &s
		case "technique_id":
			s := a.Value.String()
			entry.TechniqueID = &s
		case "operation":
			entry.Operation = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			entry.LatencyMs = latencyMs(a.Value)
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	c := h.core
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		return nil
	default:
	}
	c.buffer = append(c.buffer, entry)
	needFlush := len(c.buffer) >= batchSize
	if needFlush {
		c.flushing.Add(1)
	}
	c.mu.Unlock()

	if needFlush {
		go func() {
			defer c.flushing.Done()
			c.flush()
		}()
	}
	return nil
}

func latencyMs(v slog.Value) int {
	switch v.Kind() {
	case slog.KindFloat64:
		return int(math.Round(v.Float64()))
	case slog.KindInt64:
		return int(v.Int64())
	case slog.KindDuration:
		return int(v.Duration().Milliseconds())
	}
	return 0
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{core: h.core, attrs: merged}
}

// WithGroup is a no-op; persisted records keep a flat layout.
func (h *DBHandler) WithGroup(name string) slog.Handler {
	return h
}
