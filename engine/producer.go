package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/metrics"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/utils"
)

const (
	headerFeatureGroup        = "SH-Feature-Group"
	headerFeatureGroupVersion = "SH-Feature-Group-Version"
	headerPublishedTime       = "SH-Published-Time"
	headerEntityKey           = "SH-Entity-Key"
)

// StreamProducer is a write handle bound to the online topic of one
// feature group. It is safe for concurrent use.
type StreamProducer struct {
	spec    ProducerSpec
	topic   string
	subject string
	js      jetstream.JetStream
	tracer  trace.Tracer
	metrics *metrics.Metrics

	mu      sync.Mutex
	pending []jetstream.PubAckFuture
	errs    []error
	closed  bool
}

func (p *StreamProducer) Topic() string {
	return p.topic
}

func (p *StreamProducer) Subject() string {
	return p.subject
}

// Produce publishes one record and waits for the broker ack.
func (p *StreamProducer) Produce(ctx context.Context, record map[string]interface{}) error {
	if p.isClosed() {
		return ErrProducerClosed
	}

	ctx, span := p.tracer.Start(
		ctx,
		p.subject+" publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKey.String("nats"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.subject),
		),
	)
	defer span.End()

	started := time.Now()
	msg, err := p.buildMsg(record)
	if err != nil {
		span.SetStatus(codes.Error, "invalid record")
		return err
	}

	f, err := p.js.PublishMsgAsync(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish record")
		p.metrics.PublishErrors.WithLabelValues(p.spec.FeatureGroupName, p.topic).Inc()
		return fmt.Errorf("failed to publish record: %w", err)
	}

	select {
	case <-ctx.Done():
		span.SetStatus(codes.Unset, "context canceled")
		return fmt.Errorf("failed to publish record: %w", ctx.Err())
	case ack := <-f.Ok():
		span.SetAttributes(
			semconv.MessagingMessageID(fmt.Sprintf("%d", ack.Sequence)),
		)
		span.SetStatus(codes.Ok, "")
		p.metrics.RecordsPublished.WithLabelValues(p.spec.FeatureGroupName, p.topic).Inc()
		p.metrics.PublishDuration.WithLabelValues(p.spec.FeatureGroupName).Observe(time.Since(started).Seconds())
		return nil
	case err := <-f.Err():
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish record")
		p.metrics.PublishErrors.WithLabelValues(p.spec.FeatureGroupName, p.topic).Inc()
		return translatePublishError(err)
	}
}

// ProduceAsync enqueues one record without waiting for the ack. Call
// Flush to wait for outstanding acks and collect failures.
func (p *StreamProducer) ProduceAsync(ctx context.Context, record map[string]interface{}) error {
	if p.isClosed() {
		return ErrProducerClosed
	}

	msg, err := p.buildMsg(record)
	if err != nil {
		return err
	}

	f, err := p.js.PublishMsgAsync(msg)
	if err != nil {
		p.metrics.PublishErrors.WithLabelValues(p.spec.FeatureGroupName, p.topic).Inc()
		return fmt.Errorf("failed to publish record: %w", err)
	}

	p.mu.Lock()
	p.pending = append(p.pending, f)
	p.mu.Unlock()
	return nil
}

// Flush waits until every async publish has been acknowledged and
// returns the first failure, if any. The remaining failures stay
// available through Errors.
func (p *StreamProducer) Flush(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.js.PublishAsyncComplete():
	}

	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	var errs []error
	for _, f := range pending {
		select {
		case <-f.Ok():
			p.metrics.RecordsPublished.WithLabelValues(p.spec.FeatureGroupName, p.topic).Inc()
		case err := <-f.Err():
			p.metrics.PublishErrors.WithLabelValues(p.spec.FeatureGroupName, p.topic).Inc()
			errs = append(errs, translatePublishError(err))
		default:
			// PublishAsyncComplete fired, every future is resolved.
		}
	}

	if len(errs) == 0 {
		return nil
	}

	p.mu.Lock()
	p.errs = append(p.errs, errs...)
	p.mu.Unlock()
	return errs[0]
}

// Errors drains the failures collected by Flush.
func (p *StreamProducer) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	errs := p.errs
	p.errs = nil
	return errs
}

// Close marks the handle closed. The underlying connection belongs to
// the datasource registry and stays open.
func (p *StreamProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *StreamProducer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// buildMsg validates the record against the group schema and turns it
// into a broker message.
func (p *StreamProducer) buildMsg(record map[string]interface{}) (*natsgo.Msg, error) {
	if len(record) == 0 {
		return nil, fmt.Errorf("record is empty")
	}

	if len(p.spec.FieldTypes) > 0 {
		for name := range record {
			if _, ok := p.spec.FieldTypes[name]; !ok {
				return nil, fmt.Errorf("feature name :%s not found in the feature group fields", name)
			}
		}
	}

	entityKeys := make([]string, 0, len(p.spec.PrimaryKeys))
	for _, key := range p.spec.PrimaryKeys {
		value, ok := record[key]
		if !ok || value == nil {
			return nil, fmt.Errorf("primary key %s is required in the record", key)
		}
		entityKeys = append(entityKeys, utils.ToString(value, ""))
	}

	normalized := make(map[string]interface{}, len(record))
	for name, value := range record {
		normalized[name] = normalizeValue(p.spec.FieldTypes[name], value)
	}

	payload, err := structpb.NewStruct(normalized)
	if err != nil {
		return nil, fmt.Errorf("serialize record: %w", err)
	}
	data, err := proto.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize record: %w", err)
	}

	msg := &natsgo.Msg{
		Subject: p.subject,
		Header:  natsgo.Header{},
		Data:    data,
	}
	msg.Header.Set(headerFeatureGroup, p.spec.FeatureGroupName)
	msg.Header.Set(headerFeatureGroupVersion, fmt.Sprintf("%d", p.spec.Version))
	msg.Header.Set(headerPublishedTime, time.Now().Format(time.RFC3339Nano))

	entityKey := strings.Join(entityKeys, ".")
	if entityKey != "" {
		msg.Header.Set(headerEntityKey, entityKey)
	}

	// Same entity at the same event time is the same logical update, so
	// broker-side dedup can drop replays.
	if p.spec.EventTimeColumn != "" {
		if eventTime, ok := record[p.spec.EventTimeColumn]; ok && entityKey != "" {
			msg.Header.Set("Nats-Msg-Id", fmt.Sprintf("%s_%d_%s_%s",
				p.spec.FeatureGroupName, p.spec.Version, entityKey, utils.ToString(eventTime, "")))
		}
	}

	return msg, nil
}

func normalizeValue(fsType constants.FSType, value interface{}) interface{} {
	switch fsType {
	case constants.FS_INT32, constants.FS_INT64, constants.FS_TIMESTAMP:
		return utils.ToInt64(value, 0)
	case constants.FS_FLOAT, constants.FS_DOUBLE:
		return utils.ToFloat(value, 0)
	case constants.FS_STRING:
		return utils.ToString(value, "")
	case constants.FS_BOOLEAN:
		return utils.ToBool(value, false)
	default:
		return value
	}
}

func translatePublishError(err error) error {
	if errors.Is(err, jetstream.ErrNoStreamResponse) || errors.Is(err, natsgo.ErrNoResponders) {
		return ErrTopicUnbound
	}
	if errors.Is(err, natsgo.ErrTimeout) {
		return ErrPublishTimeout
	}
	return fmt.Errorf("failed to publish record: %w", err)
}
