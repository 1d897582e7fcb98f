package engine

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	fsnats "github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/nats"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/metrics"
)

// Write option keys understood by the engine. Unknown keys are carried
// but ignored.
const (
	WriteOptionTopic         = "topic"
	WriteOptionDatasource    = "datasource"
	WriteOptionSubjectPrefix = "subject_prefix"
)

// ProducerSpec carries everything the engine needs to bind a producer
// for one feature group.
type ProducerSpec struct {
	ProjectName      string
	FeatureGroupName string
	FeatureGroupId   int
	FeatureStoreId   int
	Version          int
	OnlineTopicName  string
	DatasourceName   string
	SubjectPrefix    string
	PrimaryKeys      []string
	EventTimeColumn  string
	FieldTypes       map[string]constants.FSType
	OnlineEnabled    bool
}

type FeatureGroupEngine struct{}

func NewFeatureGroupEngine() *FeatureGroupEngine {
	return &FeatureGroupEngine{}
}

// InsertStream binds a stream producer for the group. The returned
// handle performs no I/O until records are produced on it.
func (e *FeatureGroupEngine) InsertStream(ctx context.Context, spec ProducerSpec, writeOptions map[string]string) (*StreamProducer, error) {
	if spec.FeatureGroupName == "" {
		return nil, fmt.Errorf("feature group name is empty")
	}
	if spec.FeatureGroupId == 0 {
		return nil, fmt.Errorf("feature group %s: %w, create it before writing", spec.FeatureGroupName, ErrNotRegistered)
	}

	topic := writeOptions[WriteOptionTopic]
	if topic == "" {
		topic = spec.OnlineTopicName
	}
	if topic == "" {
		topic = fmt.Sprintf("%d_%d_%s_%d_onlinefs", spec.FeatureStoreId, spec.FeatureGroupId, spec.FeatureGroupName, spec.Version)
	}

	datasourceName := writeOptions[WriteOptionDatasource]
	if datasourceName == "" {
		datasourceName = spec.DatasourceName
	}
	client, err := fsnats.GetStreamClient(datasourceName)
	if err != nil {
		return nil, err
	}

	prefix := writeOptions[WriteOptionSubjectPrefix]
	if prefix == "" {
		prefix = spec.SubjectPrefix
	}
	if prefix == "" {
		prefix = client.SubjectPrefix
	}

	subject := topic
	if prefix != "" {
		subject = prefix + "." + topic
	}
	if !isValidSubject(subject) {
		return nil, fmt.Errorf("invalid publish subject: %s", subject)
	}

	producer := &StreamProducer{
		spec:    spec,
		topic:   topic,
		subject: subject,
		js:      client.JetStream(),
		tracer:  otel.GetTracerProvider().Tracer("streamhouse-featurestore-go-sdk/engine"),
		metrics: metrics.Default(),
	}
	return producer, nil
}

// isValidSubject rejects subjects that are empty, contain whitespace,
// or use wildcard tokens, none of which can be published to.
func isValidSubject(subject string) bool {
	if subject == "" {
		return false
	}
	for _, token := range strings.Split(subject, ".") {
		if token == "" || token == "*" || token == ">" {
			return false
		}
		if strings.ContainsAny(token, " \t\r\n") {
			return false
		}
	}
	return true
}
