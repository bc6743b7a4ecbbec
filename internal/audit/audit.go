// Package audit records guarded mutations best-effort. A failure to record
// must never fail, roll back, or delay the primary operation; sink errors
// surface only through the log side channel.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"crm-platform-backend/internal/database/models"
	"crm-platform-backend/internal/logger"

	"github.com/google/uuid"
)

// Action identifies the kind of mutation being recorded.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry describes one mutation to record.
type Entry struct {
	TenantID   uuid.UUID
	Actor      string
	Action     Action
	EntityType string
	EntityID   uuid.UUID
	Before     interface{}
	After      interface{}
	Metadata   map[string]string
}

// Sink persists audit records. Implementations must be safe for concurrent
// use; the recorder calls Append from its worker goroutine.
type Sink interface {
	Append(ctx context.Context, rec *models.AuditLog) error
}

// Recorder queues entries and writes them asynchronously. The queue is
// bounded; when it is full the entry is dropped with a warning rather than
// blocking the caller.
type Recorder struct {
	sink    Sink
	log     *logger.Logger
	queue   chan *models.AuditLog
	wg      sync.WaitGroup
	closing chan struct{}
	once    sync.Once
}

// RecorderOptions tunes the recorder.
type RecorderOptions struct {
	QueueSize     int
	AppendTimeout time.Duration
}

// NewRecorder creates a recorder and starts its worker.
func NewRecorder(sink Sink, opts *RecorderOptions) *Recorder {
	if opts == nil {
		opts = &RecorderOptions{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.AppendTimeout <= 0 {
		opts.AppendTimeout = 5 * time.Second
	}

	r := &Recorder{
		sink:    sink,
		log:     logger.New().WithField("component", "audit"),
		queue:   make(chan *models.AuditLog, opts.QueueSize),
		closing: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker(opts.AppendTimeout)
	return r
}

// Record queues an entry for persistence. It never blocks and never returns
// an error; the primary operation has already committed by the time this is
// called. Entries recorded after Close are dropped.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.sink == nil {
		return
	}

	select {
	case <-r.closing:
		return
	default:
	}

	rec := &models.AuditLog{
		TenantID:   entry.TenantID,
		Actor:      entry.Actor,
		Action:     string(entry.Action),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
	}

	if changes := Diff(entry.Before, entry.After); changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			rec.Diff = raw
		}
	}
	if len(entry.Metadata) > 0 {
		if raw, err := json.Marshal(entry.Metadata); err == nil {
			rec.Metadata = raw
		}
	}

	select {
	case r.queue <- rec:
	default:
		r.log.WithField("entity_type", entry.EntityType).Warn("audit queue full, dropping record")
	}
}

// Close drains the queue and stops the worker. The queue channel itself is
// never closed, so a Record racing Close drops its entry instead of
// panicking.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.closing)
	})
	r.wg.Wait()
}

func (r *Recorder) worker(timeout time.Duration) {
	defer r.wg.Done()
	for {
		select {
		case rec := <-r.queue:
			r.append(rec, timeout)
		case <-r.closing:
			// Drain whatever was queued before shutdown.
			for {
				select {
				case rec := <-r.queue:
					r.append(rec, timeout)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) append(rec *models.AuditLog, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := r.sink.Append(ctx, rec); err != nil {
		r.log.WithField("entity_type", rec.EntityType).Errorf("failed to append audit record: %v", err)
	}
}
