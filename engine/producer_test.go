package engine

import (
	"context"
	"errors"
	"testing"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"fortio.org/assert"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/metrics"
)

func newTestProducer() *StreamProducer {
	return &StreamProducer{
		spec: ProducerSpec{
			FeatureGroupName: "user_clicks",
			FeatureGroupId:   11,
			Version:          1,
			PrimaryKeys:      []string{"user_id"},
			EventTimeColumn:  "event_time",
			FieldTypes: map[string]constants.FSType{
				"user_id":     constants.FS_STRING,
				"event_time":  constants.FS_TIMESTAMP,
				"click_count": constants.FS_INT64,
				"city":        constants.FS_STRING,
			},
		},
		topic:   "clicks_topic",
		subject: "fs.clicks_topic",
		metrics: metrics.NewMetrics(),
	}
}

func TestBuildMsgHeadersAndPayload(t *testing.T) {
	p := newTestProducer()

	msg, err := p.buildMsg(map[string]interface{}{
		"user_id":     "u1",
		"event_time":  int64(1700000000),
		"click_count": 3,
		"city":        "berlin",
	})
	assert.NoError(t, err)
	assert.Equal(t, "fs.clicks_topic", msg.Subject)
	assert.Equal(t, "user_clicks", msg.Header.Get(headerFeatureGroup))
	assert.Equal(t, "1", msg.Header.Get(headerFeatureGroupVersion))
	assert.Equal(t, "u1", msg.Header.Get(headerEntityKey))
	assert.True(t, msg.Header.Get(headerPublishedTime) != "")
	assert.Equal(t, "user_clicks_1_u1_1700000000", msg.Header.Get("Nats-Msg-Id"))

	var payload structpb.Struct
	assert.NoError(t, proto.Unmarshal(msg.Data, &payload))
	fields := payload.AsMap()
	assert.Equal(t, "u1", fields["user_id"])
	// Numeric columns are coerced to their declared types before
	// serialization, structpb renders numbers as float64.
	assert.Equal(t, float64(3), fields["click_count"])
	assert.Equal(t, "berlin", fields["city"])
}

func TestBuildMsgRejectsEmptyRecord(t *testing.T) {
	p := newTestProducer()
	_, err := p.buildMsg(nil)
	assert.Error(t, err)
	_, err = p.buildMsg(map[string]interface{}{})
	assert.Error(t, err)
}

func TestBuildMsgRejectsUnknownField(t *testing.T) {
	p := newTestProducer()
	_, err := p.buildMsg(map[string]interface{}{
		"user_id":  "u1",
		"no_field": 1,
	})
	assert.Error(t, err)
}

func TestBuildMsgRequiresPrimaryKey(t *testing.T) {
	p := newTestProducer()
	_, err := p.buildMsg(map[string]interface{}{
		"click_count": 3,
	})
	assert.Error(t, err)

	_, err = p.buildMsg(map[string]interface{}{
		"user_id":     nil,
		"click_count": 3,
	})
	assert.Error(t, err)
}

func TestBuildMsgWithoutEventTimeSkipsMsgId(t *testing.T) {
	p := newTestProducer()
	p.spec.EventTimeColumn = ""

	msg, err := p.buildMsg(map[string]interface{}{
		"user_id": "u1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "", msg.Header.Get("Nats-Msg-Id"))
}

func TestNormalizeValue(t *testing.T) {
	testcases := []struct {
		name   string
		fsType constants.FSType
		input  interface{}
		expect interface{}
	}{
		{"int from string", constants.FS_INT64, "42", int64(42)},
		{"int32", constants.FS_INT32, 7, int64(7)},
		{"timestamp", constants.FS_TIMESTAMP, 1700000000, int64(1700000000)},
		{"float from string", constants.FS_DOUBLE, "3.5", 3.5},
		{"string from int", constants.FS_STRING, 42, "42"},
		{"bool from string", constants.FS_BOOLEAN, "true", true},
		{"unknown type passthrough", constants.FSType(0), []string{"a"}, []string{"a"}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, normalizeValue(tc.fsType, tc.input))
		})
	}
}

func TestTranslatePublishError(t *testing.T) {
	assert.True(t, errors.Is(translatePublishError(jetstream.ErrNoStreamResponse), ErrTopicUnbound))
	assert.True(t, errors.Is(translatePublishError(natsgo.ErrNoResponders), ErrTopicUnbound))
	assert.True(t, errors.Is(translatePublishError(natsgo.ErrTimeout), ErrPublishTimeout))

	cause := errors.New("boom")
	assert.True(t, errors.Is(translatePublishError(cause), cause))
}

func TestClosedProducerRejectsWrites(t *testing.T) {
	p := newTestProducer()
	assert.NoError(t, p.Close())

	err := p.Produce(context.Background(), map[string]interface{}{"user_id": "u1"})
	assert.True(t, errors.Is(err, ErrProducerClosed))

	err = p.ProduceAsync(context.Background(), map[string]interface{}{"user_id": "u1"})
	assert.True(t, errors.Is(err, ErrProducerClosed))
}

func TestErrorsDrainsCollectedFailures(t *testing.T) {
	p := newTestProducer()
	p.errs = []error{ErrTopicUnbound}

	errs := p.Errors()
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, 0, len(p.Errors()))
}
