package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"crm-platform-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink collects appended records in memory.
type captureSink struct {
	mu      sync.Mutex
	records []*models.AuditLog
	err     error
	block   chan struct{}
}

func (s *captureSink) Append(ctx context.Context, rec *models.AuditLog) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *captureSink) all() []*models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.AuditLog, len(s.records))
	copy(out, s.records)
	return out
}

func TestRecorderPersistsEntry(t *testing.T) {
	sink := &captureSink{}
	rec := NewRecorder(sink, nil)

	tenantID := uuid.New()
	entityID := uuid.New()
	rec.Record(context.Background(), Entry{
		TenantID:   tenantID,
		Actor:      "user-1",
		Action:     ActionCreate,
		EntityType: "account",
		EntityID:   entityID,
		After:      &models.Account{Name: "Northwind"},
	})
	rec.Close()

	records := sink.all()
	require.Len(t, records, 1)
	assert.Equal(t, tenantID, records[0].TenantID)
	assert.Equal(t, "user-1", records[0].Actor)
	assert.Equal(t, "create", records[0].Action)
	assert.Equal(t, "account", records[0].EntityType)
	assert.Equal(t, entityID, records[0].EntityID)

	var changes map[string]FieldChange
	require.NoError(t, json.Unmarshal(records[0].Diff, &changes))
	assert.Equal(t, "Northwind", changes["name"].To)
}

func TestRecorderSerializesMetadata(t *testing.T) {
	sink := &captureSink{}
	rec := NewRecorder(sink, nil)

	rec.Record(context.Background(), Entry{
		Action:     ActionDelete,
		EntityType: "contact",
		EntityID:   uuid.New(),
		Metadata:   map[string]string{"request_id": "req-42"},
	})
	rec.Close()

	records := sink.all()
	require.Len(t, records, 1)

	var meta map[string]string
	require.NoError(t, json.Unmarshal(records[0].Metadata, &meta))
	assert.Equal(t, "req-42", meta["request_id"])
}

func TestRecorderFullQueueDropsWithoutBlocking(t *testing.T) {
	block := make(chan struct{})
	sink := &captureSink{block: block}
	rec := NewRecorder(sink, &RecorderOptions{QueueSize: 1})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			rec.Record(context.Background(), Entry{
				Action:     ActionCreate,
				EntityType: "account",
				EntityID:   uuid.New(),
			})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(block)
	rec.Close()

	// Some entries were dropped; the sink never saw all ten.
	assert.Less(t, len(sink.all()), 10)
}

func TestRecorderSinkFailureDoesNotPropagate(t *testing.T) {
	sink := &captureSink{err: errors.New("sink down")}
	rec := NewRecorder(sink, nil)

	// Record never returns an error; the failure is log-only.
	rec.Record(context.Background(), Entry{
		Action:     ActionUpdate,
		EntityType: "account",
		EntityID:   uuid.New(),
	})
	rec.Close()

	assert.Empty(t, sink.all())
}

func TestRecorderNilReceiverAndNilSink(t *testing.T) {
	var nilRec *Recorder
	nilRec.Record(context.Background(), Entry{Action: ActionCreate})

	rec := NewRecorder(nil, nil)
	rec.Record(context.Background(), Entry{Action: ActionCreate})
	rec.Close()
}

func TestRecorderCloseIsIdempotent(t *testing.T) {
	rec := NewRecorder(&captureSink{}, nil)
	rec.Close()
	rec.Close()
}

func TestRecorderRecordAfterCloseDrops(t *testing.T) {
	sink := &captureSink{}
	rec := NewRecorder(sink, nil)

	rec.Record(context.Background(), Entry{Action: ActionCreate, EntityType: "account", EntityID: uuid.New()})
	rec.Close()

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Entry{Action: ActionDelete, EntityType: "account", EntityID: uuid.New()})
	})

	records := sink.all()
	require.Len(t, records, 1)
	assert.Equal(t, "create", records[0].Action)
}
