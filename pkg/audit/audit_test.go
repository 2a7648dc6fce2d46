package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewEventDefaults(t *testing.T) {
	e := NewEvent(EventRequestAccepted, "shop")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventRequestAccepted, e.Type)
	assert.Equal(t, SeverityInfo, e.Severity)
	assert.Equal(t, "shop", e.Platform)
	assert.WithinDuration(t, time.Now().UTC(), e.Timestamp, time.Minute)
}

func TestNewEventSeverityMapping(t *testing.T) {
	assert.Equal(t, SeverityWarning, NewEvent(EventRequestUnauthorized, "p").Severity)
	assert.Equal(t, SeverityCritical, NewEvent(EventDeliveryFailed, "p").Severity)
	assert.Equal(t, SeverityInfo, NewEvent(EventDeliverySucceeded, "p").Severity)
}

func TestEventWithDetail(t *testing.T) {
	e := NewEvent(EventRequestRejected, "p").WithDetail("reason", "invalid_recipient")
	assert.Equal(t, "invalid_recipient", e.Details["reason"])
}

func TestLogSinkWritesStructuredEntry(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	e := NewEvent(EventDeliveryPartial, "shop")
	e.Recipients = 3
	e.Succeeded = 2
	e.Failed = 1
	require.NoError(t, sink.Write(context.Background(), e))
	require.NoError(t, sink.Close())

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "audit_event", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "shop", ctx["platform"])
	assert.EqualValues(t, 3, ctx["recipients"])
	assert.EqualValues(t, 1, ctx["failed"])
}

// recordingSink captures events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []*Event
}

func (r *recordingSink) Write(_ context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) Close() error { return nil }
func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestServiceDeliversToSinks(t *testing.T) {
	sink := &recordingSink{}
	svc := NewService(zap.NewNop().Sugar(), sink)

	svc.Record(NewEvent(EventRequestAccepted, "shop"))
	svc.Record(NewEvent(EventDeliverySucceeded, "shop"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))

	assert.Equal(t, 2, sink.count())
}

func TestServiceStopIsIdempotent(t *testing.T) {
	svc := NewService(zap.NewNop().Sugar(), &recordingSink{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))
	require.NoError(t, svc.Stop(ctx))
}

func TestServiceRecordNilIsNoop(t *testing.T) {
	svc := NewService(zap.NewNop().Sugar(), &recordingSink{})
	svc.Record(nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))
}

func TestNewKafkaSinkValidation(t *testing.T) {
	_, err := NewKafkaSink(KafkaSinkConfig{Topic: "t"}, zap.NewNop())
	assert.Error(t, err, "missing brokers must be rejected")

	_, err = NewKafkaSink(KafkaSinkConfig{Brokers: []string{"localhost:9092"}}, zap.NewNop())
	assert.Error(t, err, "missing topic must be rejected")

	sink, err := NewKafkaSink(KafkaSinkConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "audit",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "kafka", sink.Name())
	require.NoError(t, sink.Close())

	// writes after close are rejected
	err = sink.Write(context.Background(), NewEvent(EventRequestAccepted, "p"))
	assert.Error(t, err)
}
