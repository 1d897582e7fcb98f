package domain

import (
	"context"
	"errors"
	"testing"

	"fortio.org/assert"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/dao"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/engine"
)

type stubEngine struct {
	lastSpec         engine.ProducerSpec
	lastWriteOptions map[string]string
	producer         *engine.StreamProducer
	err              error
}

func (e *stubEngine) InsertStream(ctx context.Context, spec engine.ProducerSpec, writeOptions map[string]string) (*engine.StreamProducer, error) {
	e.lastSpec = spec
	e.lastWriteOptions = writeOptions
	return e.producer, e.err
}

func TestNewStreamFeatureGroupNormalizesKeys(t *testing.T) {
	fg, err := NewStreamFeatureGroup(nil, "user_clicks",
		WithPrimaryKeys("User_ID", "Region"),
		WithPartitionKeys("DT"),
		WithPrecombineKey("Event_Time"),
	)
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "region"}, fg.PrimaryKeys)
	assert.Equal(t, []string{"dt"}, fg.PartitionKeys)
	assert.Equal(t, "event_time", fg.PrecombineKey)
}

func TestNewStreamFeatureGroupRequiresName(t *testing.T) {
	fg, err := NewStreamFeatureGroup(nil, "")
	assert.Error(t, err)
	assert.True(t, fg == nil)
	assert.True(t, errors.Is(err, ErrNameRequired))
	assert.True(t, IsValidationError(err))
}

func TestNewStreamFeatureGroupDefaults(t *testing.T) {
	fg, err := NewStreamFeatureGroup(nil, "user_clicks")
	assert.NoError(t, err)
	assert.Equal(t, constants.Time_Travel_Format_Hudi, fg.TimeTravelFormat)
	if fg.StatisticsConfig == nil {
		t.Fatal("statistics config default was not applied")
	}
	assert.False(t, fg.StatisticsConfig.Enabled)
	assert.False(t, fg.OnlineEnabled)
	assert.Equal(t, constants.Feature_Group_Type_Stream, fg.Type)
}

func TestNewStreamFeatureGroupKeepsExplicitValues(t *testing.T) {
	fg, err := NewStreamFeatureGroup(nil, "user_clicks",
		WithVersion(3),
		WithDescription("clickstream features"),
		WithOnlineEnabled(true),
		WithTimeTravelFormat(constants.Time_Travel_Format_Delta),
		WithStatisticsConfig(&api.StatisticsConfig{Enabled: true}),
		WithOnlineTopicName("clicks_topic"),
		WithEventTimeColumn("event_time"),
	)
	assert.NoError(t, err)
	assert.Equal(t, 3, fg.GetVersion())
	assert.Equal(t, "clickstream features", fg.Description)
	assert.True(t, fg.IsOnlineEnabled())
	assert.Equal(t, constants.Time_Travel_Format_Delta, fg.TimeTravelFormat)
	assert.True(t, fg.StatisticsConfig.Enabled)
	assert.Equal(t, "clicks_topic", fg.OnlineTopicName)
	assert.Equal(t, "event_time", fg.EventTimeColumn)
}

func TestNewStreamFeatureGroupForUpdate(t *testing.T) {
	fg := NewStreamFeatureGroupForUpdate(7, "x", []*api.Feature{})
	assert.Equal(t, 7, fg.GetId())
	assert.Equal(t, "x", fg.Description)
	assert.Equal(t, 0, len(fg.Features))

	assert.Equal(t, "", fg.Name)
	assert.Equal(t, 0, fg.Version)
	assert.Equal(t, 0, len(fg.PrimaryKeys))
	assert.False(t, fg.OnlineEnabled)
	assert.Equal(t, constants.TimeTravelFormat(""), fg.TimeTravelFormat)
	assert.True(t, fg.StatisticsConfig == nil)
	assert.True(t, fg.GetFeatureStore() == nil)
}

func TestNewStreamFeatureGroupReference(t *testing.T) {
	fs := &FeatureStore{FeatureStore: &api.FeatureStore{ProjectName: "proj"}}
	fg := NewStreamFeatureGroupReference(fs, 42)
	assert.Equal(t, 42, fg.GetId())
	assert.True(t, fg.GetFeatureStore() == fs)

	assert.Equal(t, "", fg.Name)
	assert.Equal(t, 0, fg.Version)
	assert.Equal(t, 0, len(fg.PrimaryKeys))
	assert.False(t, fg.OnlineEnabled)
}

func TestInsertRecordsNotSupported(t *testing.T) {
	fg, err := NewStreamFeatureGroup(nil, "user_clicks")
	assert.NoError(t, err)
	assert.False(t, fg.SupportsDirectWrite())

	ctx := context.Background()
	testcases := []struct {
		name    string
		records []map[string]interface{}
		options map[string]string
	}{
		{"nil records", nil, nil},
		{"empty records", []map[string]interface{}{}, nil},
		{"records", []map[string]interface{}{{"user_id": "u1"}}, nil},
		{"records with options", []map[string]interface{}{{"user_id": "u1"}}, map[string]string{"topic": "t1"}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			err := fg.InsertRecords(ctx, tc.records)
			assert.True(t, errors.Is(err, ErrDirectWriteNotSupported))

			err = fg.InsertRecordsWithOptions(ctx, tc.records, tc.options)
			assert.True(t, errors.Is(err, ErrDirectWriteNotSupported))
		})
	}
}

func TestInsertStreamForwardsWriteOptions(t *testing.T) {
	stub := &stubEngine{producer: &engine.StreamProducer{}}
	fg, err := NewStreamFeatureGroup(nil, "user_clicks", WithPrimaryKeys("User_ID"))
	assert.NoError(t, err)
	fg.featureGroupEngine = stub

	writeOptions := map[string]string{"topic": "t1"}
	producer, err := fg.InsertStreamWithOptions(context.Background(), writeOptions)
	assert.NoError(t, err)
	assert.True(t, producer == stub.producer)
	assert.Equal(t, 1, len(stub.lastWriteOptions))
	assert.Equal(t, "t1", stub.lastWriteOptions["topic"])
	// The exact map instance travels, no copy and no filtering.
	writeOptions["datasource"] = "ds1"
	assert.Equal(t, "ds1", stub.lastWriteOptions["datasource"])
	assert.Equal(t, "user_clicks", stub.lastSpec.FeatureGroupName)
	assert.Equal(t, []string{"user_id"}, stub.lastSpec.PrimaryKeys)
}

func TestInsertStreamUsesEmptyOptions(t *testing.T) {
	stub := &stubEngine{producer: &engine.StreamProducer{}}
	fg, err := NewStreamFeatureGroup(nil, "user_clicks")
	assert.NoError(t, err)
	fg.featureGroupEngine = stub

	producer, err := fg.InsertStream(context.Background())
	assert.NoError(t, err)
	assert.True(t, producer == stub.producer)
	assert.True(t, stub.lastWriteOptions != nil)
	assert.Equal(t, 0, len(stub.lastWriteOptions))
}

func TestInsertStreamPropagatesEngineError(t *testing.T) {
	engineErr := errors.New("stream client not found")
	stub := &stubEngine{err: engineErr}
	fg, err := NewStreamFeatureGroup(nil, "user_clicks")
	assert.NoError(t, err)
	fg.featureGroupEngine = stub

	producer, err := fg.InsertStream(context.Background())
	assert.True(t, producer == nil)
	assert.True(t, err == engineErr)
}

type stubDao struct {
	dao.UnimplementedFeatureGroupDao
	lastKeys         []interface{}
	lastSelectFields []string
	result           []map[string]interface{}
}

func (d *stubDao) GetFeatures(keys []interface{}, selectFields []string) ([]map[string]interface{}, error) {
	d.lastKeys = keys
	d.lastSelectFields = selectFields
	return d.result, nil
}

func newServingFixture(t *testing.T) (*StreamFeatureGroup, *stubDao) {
	t.Helper()
	fg, err := NewStreamFeatureGroup(nil, "user_clicks",
		WithOnlineEnabled(true),
		WithPrimaryKeys("user_id"),
		WithFeatures([]*api.Feature{
			{Name: "user_id", Type: constants.FS_STRING},
			{Name: "click_count", Type: constants.FS_INT64},
			{Name: "city", Type: constants.FS_STRING},
		}),
	)
	assert.NoError(t, err)
	stub := &stubDao{}
	fg.featureGroupDao = stub
	return fg, stub
}

func TestGetOnlineFeaturesWildcardDeduplicates(t *testing.T) {
	fg, stub := newServingFixture(t)

	_, err := fg.GetOnlineFeatures([]interface{}{"u1"}, []string{"*", "city"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "click_count", "city"}, stub.lastSelectFields)

	// An explicit field before the wildcard is not re-added either.
	_, err = fg.GetOnlineFeatures([]interface{}{"u1"}, []string{"city", "*"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "city", "click_count"}, stub.lastSelectFields)
}

func TestGetOnlineFeaturesAppliesAlias(t *testing.T) {
	fg, stub := newServingFixture(t)
	stub.result = []map[string]interface{}{{"user_id": "u1", "city": "berlin"}}

	result, err := fg.GetOnlineFeatures([]interface{}{"u1"}, []string{"city"}, map[string]string{"city": "home_city"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(result))
	assert.Equal(t, "berlin", result[0]["home_city"])
	_, stillThere := result[0]["city"]
	assert.False(t, stillThere)
}

func TestGetOnlineFeaturesRequiresOnlineStore(t *testing.T) {
	fg, err := NewStreamFeatureGroup(nil, "user_clicks")
	assert.NoError(t, err)

	_, err = fg.GetOnlineFeatures([]interface{}{"u1"}, []string{"*"}, nil)
	assert.True(t, errors.Is(err, ErrOnlineStoreNotEnabled))

	fg.OnlineEnabled = true
	_, err = fg.GetOnlineFeatures([]interface{}{"u1"}, []string{"*"}, nil)
	assert.Error(t, err)
}

func TestProducerSpecPrefersGroupConnector(t *testing.T) {
	fs := &FeatureStore{FeatureStore: &api.FeatureStore{
		ProjectName:      "proj",
		FeatureStoreId:   5,
		StreamDataSource: &api.Datasource{Name: "store_stream"},
		StreamConnector:  &api.StorageConnector{SubjectPrefix: "store_prefix"},
	}}

	fg, err := NewStreamFeatureGroup(fs, "user_clicks",
		WithStorageConnector(&api.StorageConnector{
			Name:          "group_stream",
			Type:          api.Connector_Type_Stream,
			SubjectPrefix: "group_prefix",
		}),
	)
	assert.NoError(t, err)

	spec := fg.producerSpec()
	assert.Equal(t, "proj", spec.ProjectName)
	assert.Equal(t, 5, spec.FeatureStoreId)
	assert.Equal(t, "group_stream", spec.DatasourceName)
	assert.Equal(t, "group_prefix", spec.SubjectPrefix)
}

func TestProducerSpecFallsBackToStore(t *testing.T) {
	fs := &FeatureStore{FeatureStore: &api.FeatureStore{
		ProjectName:      "proj",
		StreamDataSource: &api.Datasource{Name: "store_stream"},
		StreamConnector:  &api.StorageConnector{SubjectPrefix: "store_prefix"},
	}}

	fg, err := NewStreamFeatureGroup(fs, "user_clicks")
	assert.NoError(t, err)

	spec := fg.producerSpec()
	assert.Equal(t, "store_stream", spec.DatasourceName)
	assert.Equal(t, "store_prefix", spec.SubjectPrefix)
}

func TestInitFieldsSkipsKeyColumns(t *testing.T) {
	fg, err := NewStreamFeatureGroup(nil, "user_clicks",
		WithPrimaryKeys("user_id"),
		WithPartitionKeys("dt"),
		WithFeatures([]*api.Feature{
			{Name: "user_id", Type: constants.FS_STRING},
			{Name: "dt", Type: constants.FS_STRING},
			{Name: "click_count", Type: constants.FS_INT64},
			{Name: "city", Type: constants.FS_STRING},
		}),
	)
	assert.NoError(t, err)
	assert.Equal(t, []string{"click_count", "city"}, fg.featureFields)
	assert.Equal(t, "user_id", fg.primaryKeyField)
}
