package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/chainsafe/claims-registry/internal/metrics"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

const (
	headerEventID       = "event_id"
	headerEventType     = "event_type"
	headerEventSequence = "event_sequence"
)

// Payload is the JSON value of a claim event record.
type Payload struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Caller      string `json:"caller"`
	NewOwner    string `json:"new_owner,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Height      uint64 `json:"height"`
	Sequence    uint64 `json:"sequence"`
	EmittedAt   string `json:"emitted_at"`
}

// KafkaEmitter publishes claim events to a Kafka topic, keyed by fingerprint so that
// all events of one claim land in the same partition in order. On a single-partition
// topic the offsets follow the registry's total order; Payload.Sequence carries that
// order on any topic layout.
type KafkaEmitter struct {
	client *kgo.Client
	topic  string
	logger *zap.Logger
}

// NewKafkaEmitter connects to brokers and publishes to topic.
func NewKafkaEmitter(brokers []string, topic, clientID string, logger *zap.Logger) (*KafkaEmitter, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordPartitioner(kgo.StickyKeyPartitioner(nil)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &KafkaEmitter{
		client: client,
		topic:  topic,
		logger: logger.Named("kafka"),
	}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (e *KafkaEmitter) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(e.client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, e.topic)
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", e.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("failed to create topic %s: %w", e.topic, resp.Err)
	}
	return nil
}

// Emit implements Emitter. Records are produced asynchronously; failures are logged
// and counted but never reach the caller.
func (e *KafkaEmitter) Emit(ctx context.Context, ev claim.Event) {
	rec, err := e.record(ev)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("events", "kafka_encode").Inc()
		e.logger.Error("Failed to encode claim event", zap.Error(err))
		return
	}

	// the record must outlive the request that triggered it
	e.client.Produce(context.WithoutCancel(ctx), rec, func(r *kgo.Record, err error) {
		if err != nil {
			metrics.ErrorsTotal.WithLabelValues("events", "kafka_produce").Inc()
			e.logger.Warn("Failed to publish claim event",
				zap.String("event", string(ev.Type)),
				zap.String("fingerprint", ev.Fingerprint.String()),
				zap.Error(err),
			)
			return
		}
		metrics.EventsEmitted.WithLabelValues("kafka", string(ev.Type)).Inc()
		e.logger.Debug("Published claim event",
			zap.String("event", string(ev.Type)),
			zap.Int32("partition", r.Partition),
			zap.Int64("offset", r.Offset),
		)
	})
}

func (e *KafkaEmitter) record(ev claim.Event) (*kgo.Record, error) {
	id := uuid.New().String()
	value, err := json.Marshal(Payload{
		ID:          id,
		Type:        string(ev.Type),
		Caller:      string(ev.Caller),
		NewOwner:    string(ev.NewOwner),
		Fingerprint: ev.Fingerprint.String(),
		Height:      uint64(ev.Height),
		Sequence:    ev.Sequence,
		EmittedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	return &kgo.Record{
		Topic: e.topic,
		Key:   []byte(ev.Fingerprint.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: headerEventID, Value: []byte(id)},
			{Key: headerEventType, Value: []byte(ev.Type)},
			{Key: headerEventSequence, Value: []byte(strconv.FormatUint(ev.Sequence, 10))},
		},
	}, nil
}

// Close flushes buffered records and closes the client.
func (e *KafkaEmitter) Close(ctx context.Context) error {
	defer e.client.Close()
	if err := e.client.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush kafka records: %w", err)
	}
	return nil
}
