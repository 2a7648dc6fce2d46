// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of audit event.
type EventType string

const (
	// Request lifecycle events
	EventRequestAccepted     EventType = "request.accepted"
	EventRequestRejected     EventType = "request.rejected"
	EventRequestUnauthorized EventType = "request.unauthorized"
	EventRequestFailed       EventType = "request.failed"

	// Delivery events
	EventDeliverySucceeded EventType = "delivery.succeeded"
	EventDeliveryFailed    EventType = "delivery.failed"
	EventDeliveryPartial   EventType = "delivery.partial"
)

// Severity indicates the importance of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is one audit record. Recipient addresses are never included, only
// counts; the audit stream must not become a copy of the address book.
type Event struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	Severity      Severity          `json:"severity"`
	Timestamp     time.Time         `json:"timestamp"`
	Platform      string            `json:"platform,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
	SourceIP      string            `json:"sourceIp,omitempty"`
	Recipients    int               `json:"recipients,omitempty"`
	Succeeded     int               `json:"succeeded,omitempty"`
	Failed        int               `json:"failed,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// NewEvent creates an Event with a fresh ID and timestamp.
func NewEvent(t EventType, platform string) *Event {
	severity := SeverityInfo
	switch t {
	case EventRequestUnauthorized:
		severity = SeverityWarning
	case EventRequestFailed, EventDeliveryFailed:
		severity = SeverityCritical
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Severity:  severity,
		Timestamp: time.Now().UTC(),
		Platform:  platform,
	}
}

// WithDetail attaches one key/value detail and returns the event for chaining.
func (e *Event) WithDetail(key, value string) *Event {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}
