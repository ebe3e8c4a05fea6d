// Package kafka ships audit events to a Kafka topic so downstream security
// tooling can consume them independently of the primary store.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "precinct/pkg/platform/audit"
)

// Sink publishes audit events to a single topic, keyed by officer ID so one
// officer's events stay ordered within a partition.
type Sink struct {
	client *kgo.Client
	topic  string
}

// New connects a Kafka producer for the given brokers and topic.
func New(brokers []string, topic string) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Sink{client: client, topic: topic}, nil
}

// wireEvent is the serialized form; field names are part of the consumer
// contract, change them only with a topic version bump.
type wireEvent struct {
	Category   string    `json:"category"`
	OccurredAt time.Time `json:"occurred_at"`
	OfficerID  string    `json:"officer_id,omitempty"`
	StationID  string    `json:"station_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	Action     string    `json:"action"`
	Subject    string    `json:"subject,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Email      string    `json:"email,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
}

// Publish produces one event synchronously. Callers run on the audit worker
// goroutine, never on the request path.
func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	we := wireEvent{
		Category:   string(event.Category),
		OccurredAt: event.Timestamp,
		Action:     event.Action,
		Subject:    event.Subject,
		Reason:     event.Reason,
		Email:      event.Email,
		RequestID:  event.RequestID,
		ClientIP:   event.ClientIP,
	}
	if !event.OfficerID.IsNil() {
		we.OfficerID = event.OfficerID.String()
	}
	if !event.StationID.IsNil() {
		we.StationID = event.StationID.String()
	}
	if !event.SessionID.IsNil() {
		we.SessionID = event.SessionID.String()
	}

	value, err := json.Marshal(we)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(we.OfficerID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (s *Sink) Close() {
	s.client.Close()
}
