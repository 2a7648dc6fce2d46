// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/supra126/worker-email-notifier/pkg/metrics"
)

const (
	defaultQueueSize    = 1000
	defaultWriteTimeout = 5 * time.Second
)

// Service fans audit events out to its sinks through a buffered queue.
// Record never blocks the request path: when the queue is full the event is
// counted as dropped and discarded.
type Service struct {
	sinks  []Sink
	queue  chan *Event
	logger *zap.SugaredLogger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewService creates a Service writing to the given sinks and starts its
// background worker.
func NewService(logger *zap.SugaredLogger, sinks ...Sink) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		sinks:  sinks,
		queue:  make(chan *Event, defaultQueueSize),
		logger: logger.Named("audit-service"),
		ctx:    ctx,
		cancel: cancel,
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Record enqueues an event for asynchronous delivery to all sinks.
func (s *Service) Record(event *Event) {
	if event == nil {
		return
	}
	select {
	case s.queue <- event:
	default:
		metrics.AuditEventsDropped.WithLabelValues("queue").Inc()
		s.logger.Warnw("Audit queue full, dropping event",
			"eventID", event.ID,
			"eventType", event.Type)
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			// drain what is already queued
			for {
				select {
				case event := <-s.queue:
					s.writeAll(event)
				default:
					return
				}
			}
		case event := <-s.queue:
			s.writeAll(event)
		}
	}
}

func (s *Service) writeAll(event *Event) {
	for _, sink := range s.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
		if err := sink.Write(ctx, event); err != nil {
			s.logger.Warnw("Audit sink write failed",
				"sink", sink.Name(),
				"eventID", event.ID,
				"error", err)
		}
		cancel()
	}
}

// Stop shuts the service down, draining queued events and closing sinks.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Audit service shutdown timeout")
	}

	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
