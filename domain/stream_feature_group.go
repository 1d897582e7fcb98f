package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/dao"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/engine"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/metrics"
)

// StreamFeatureGroup is the metadata record of one stream feature
// group. It is immutable after construction; server-side changes go
// through the update constructor, which builds a fresh payload.
type StreamFeatureGroup struct {
	*api.FeatureGroup
	FeatureStore *FeatureStore

	featureFields      []string
	primaryKeyField    string
	onlineBackend      string
	featureGroupEngine streamEngine
	featureGroupDao    dao.FeatureGroupDao
}

type StreamFeatureGroupOption func(*api.FeatureGroup)

func WithVersion(version int) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.Version = version
	}
}

func WithDescription(description string) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.Description = description
	}
}

func WithPrimaryKeys(keys ...string) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.PrimaryKeys = keys
	}
}

func WithPartitionKeys(keys ...string) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.PartitionKeys = keys
	}
}

func WithPrecombineKey(key string) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.PrecombineKey = key
	}
}

func WithOnlineEnabled(online bool) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.OnlineEnabled = online
	}
}

func WithTimeTravelFormat(format constants.TimeTravelFormat) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.TimeTravelFormat = format
	}
}

func WithFeatures(features []*api.Feature) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.Features = features
	}
}

func WithStatisticsConfig(config *api.StatisticsConfig) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.StatisticsConfig = config
	}
}

func WithOnlineTopicName(topic string) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.OnlineTopicName = topic
	}
}

func WithEventTimeColumn(column string) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.EventTimeColumn = column
	}
}

func WithOnlineConfig(config *api.OnlineConfig) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.OnlineConfig = config
	}
}

func WithStorageConnector(connector *api.StorageConnector) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.StorageConnector = connector
	}
}

func WithPath(path string) StreamFeatureGroupOption {
	return func(model *api.FeatureGroup) {
		model.Path = path
	}
}

// NewStreamFeatureGroup builds a fully specified group for
// registration. The name is required; primary, partition and
// precombine keys are lowercased, and the time travel format and
// statistics config fall back to their defaults.
func NewStreamFeatureGroup(fs *FeatureStore, name string, opts ...StreamFeatureGroupOption) (*StreamFeatureGroup, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	model := &api.FeatureGroup{
		Name: name,
		Type: constants.Feature_Group_Type_Stream,
	}
	for _, opt := range opts {
		opt(model)
	}
	normalizeFeatureGroup(model)

	featureGroup := &StreamFeatureGroup{
		FeatureGroup:       model,
		FeatureStore:       fs,
		featureGroupEngine: engine.NewFeatureGroupEngine(),
	}
	featureGroup.initFields()
	return featureGroup, nil
}

// NewStreamFeatureGroupForUpdate builds the partial payload of a
// metadata update: only id, description and features travel, every
// other field stays unset.
func NewStreamFeatureGroupForUpdate(id int, description string, features []*api.Feature) *StreamFeatureGroup {
	model := &api.FeatureGroup{
		FeatureGroupId: id,
		Description:    description,
		Features:       features,
		Type:           constants.Feature_Group_Type_Stream,
	}
	return &StreamFeatureGroup{
		FeatureGroup:       model,
		featureGroupEngine: engine.NewFeatureGroupEngine(),
	}
}

// NewStreamFeatureGroupReference builds a handle to an already
// registered group, carrying only the owning store and the id.
func NewStreamFeatureGroupReference(fs *FeatureStore, id int) *StreamFeatureGroup {
	model := &api.FeatureGroup{
		FeatureGroupId: id,
		Type:           constants.Feature_Group_Type_Stream,
	}
	return &StreamFeatureGroup{
		FeatureGroup:       model,
		FeatureStore:       fs,
		featureGroupEngine: engine.NewFeatureGroupEngine(),
	}
}

// NewStreamFeatureGroupFromModel binds a group fetched from the
// metadata service, attaching the online store DAO when serving is
// enabled.
func NewStreamFeatureGroupFromModel(model *api.FeatureGroup, fs *FeatureStore) *StreamFeatureGroup {
	normalizeFeatureGroup(model)
	featureGroup := &StreamFeatureGroup{
		FeatureGroup:       model,
		FeatureStore:       fs,
		featureGroupEngine: engine.NewFeatureGroupEngine(),
	}
	featureGroup.initFields()
	if model.OnlineEnabled && fs != nil && fs.OnlineStore != nil {
		featureGroup.bindDao()
	}
	return featureGroup
}

func (fg *StreamFeatureGroup) initFields() {
	if len(fg.PrimaryKeys) > 0 {
		fg.primaryKeyField = fg.PrimaryKeys[0]
	}

	keyFields := make(map[string]bool, len(fg.PrimaryKeys)+len(fg.PartitionKeys))
	for _, key := range fg.PrimaryKeys {
		keyFields[key] = true
	}
	partitionFields := make(map[string]bool, len(fg.PartitionKeys))
	for _, key := range fg.PartitionKeys {
		partitionFields[key] = true
	}

	fg.featureFields = fg.featureFields[:0]
	for _, feature := range fg.Features {
		if partitionFields[feature.Name] {
			continue
		}
		if keyFields[feature.Name] {
			continue
		}
		fg.featureFields = append(fg.featureFields, feature.Name)
	}
}

func (fg *StreamFeatureGroup) bindDao() {
	fs := fg.FeatureStore
	daoConfig := dao.DaoConfig{
		DatasourceType:  fs.OnlineDatasourceType,
		PrimaryKeyField: fg.primaryKeyField,
		EventTimeColumn: fg.EventTimeColumn,
		TTL:             fg.Ttl,
		Fields:          fg.featureFields,
		FieldTypeMap:    fg.FieldTypeMap(),
	}

	switch fs.OnlineDatasourceType {
	case constants.Datasource_Type_Postgres:
		daoConfig.PostgresTableName = fs.OnlineStore.GetTableName(fg)
		daoConfig.PostgresName = fs.OnlineStore.GetDatasourceName()
	case constants.Datasource_Type_Mysql:
		daoConfig.MysqlTableName = fs.OnlineStore.GetTableName(fg)
		daoConfig.MysqlName = fs.OnlineStore.GetDatasourceName()
	case constants.Datasource_Type_Redis:
		daoConfig.RedisKeyPrefix = fs.OnlineStore.GetTableName(fg)
		daoConfig.RedisName = fs.OnlineStore.GetDatasourceName()
	case constants.Datasource_Type_TableStore:
		daoConfig.TableStoreTableName = fs.OnlineStore.GetTableName(fg)
		daoConfig.TableStoreName = fs.OnlineStore.GetDatasourceName()
	default:
		return
	}

	fg.onlineBackend = fs.OnlineDatasourceType
	fg.featureGroupDao = dao.NewFeatureGroupDao(daoConfig)
}

// InsertStream returns a producer handle bound to the group's online
// topic, delegating to the stream engine with empty write options.
// Engine failures are returned untouched.
func (fg *StreamFeatureGroup) InsertStream(ctx context.Context) (*engine.StreamProducer, error) {
	return fg.featureGroupEngine.InsertStream(ctx, fg.producerSpec(), map[string]string{})
}

// InsertStreamWithOptions is InsertStream with caller-supplied write
// options, handed to the engine unchanged.
func (fg *StreamFeatureGroup) InsertStreamWithOptions(ctx context.Context, writeOptions map[string]string) (*engine.StreamProducer, error) {
	return fg.featureGroupEngine.InsertStream(ctx, fg.producerSpec(), writeOptions)
}

// InsertRecords is unsupported for the stream binding, records reach
// the online store through InsertStream only.
func (fg *StreamFeatureGroup) InsertRecords(ctx context.Context, records []map[string]interface{}) error {
	return ErrDirectWriteNotSupported
}

func (fg *StreamFeatureGroup) InsertRecordsWithOptions(ctx context.Context, records []map[string]interface{}, writeOptions map[string]string) error {
	return ErrDirectWriteNotSupported
}

func (fg *StreamFeatureGroup) SupportsDirectWrite() bool {
	return false
}

func (fg *StreamFeatureGroup) producerSpec() engine.ProducerSpec {
	spec := engine.ProducerSpec{
		FeatureGroupName: fg.Name,
		FeatureGroupId:   fg.FeatureGroupId,
		Version:          fg.Version,
		OnlineTopicName:  fg.OnlineTopicName,
		EventTimeColumn:  fg.EventTimeColumn,
		PrimaryKeys:      fg.PrimaryKeys,
		FieldTypes:       fg.FieldTypeMap(),
		OnlineEnabled:    fg.OnlineEnabled,
	}
	if fg.StorageConnector != nil && fg.StorageConnector.Type == api.Connector_Type_Stream {
		spec.DatasourceName = fg.StorageConnector.Name
		spec.SubjectPrefix = fg.StorageConnector.SubjectPrefix
	}
	if fg.FeatureStore != nil {
		spec.ProjectName = fg.FeatureStore.ProjectName
		spec.FeatureStoreId = fg.FeatureStore.FeatureStoreId
		if spec.DatasourceName == "" {
			spec.DatasourceName = fg.FeatureStore.StreamDatasourceName()
		}
		if spec.SubjectPrefix == "" && fg.FeatureStore.StreamConnector != nil {
			spec.SubjectPrefix = fg.FeatureStore.StreamConnector.SubjectPrefix
		}
	}
	return spec
}

// GetOnlineFeatures reads current feature values for the given join
// keys. features supports "*" for every non-key field; alias renames
// result columns after the read.
func (fg *StreamFeatureGroup) GetOnlineFeatures(joinKeys []interface{}, features []string, alias map[string]string) ([]map[string]interface{}, error) {
	if !fg.OnlineEnabled {
		return nil, ErrOnlineStoreNotEnabled
	}
	if fg.featureGroupDao == nil {
		return nil, fmt.Errorf("online store is not provisioned for feature group %s", fg.Name)
	}

	var selectFields []string
	selectFields = append(selectFields, fg.primaryKeyField)
	seenFields := make(map[string]bool)
	seenFields[fg.primaryKeyField] = true
	for _, featureName := range features {
		if featureName == "*" {
			for _, field := range fg.featureFields {
				if seenFields[field] {
					continue
				}
				selectFields = append(selectFields, field)
				seenFields[field] = true
			}
		} else {
			if seenFields[featureName] {
				continue
			}
			found := false
			for _, field := range fg.featureFields {
				if field == featureName {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("feature name :%s not found in the feature group fields", featureName)
			}

			selectFields = append(selectFields, featureName)
			seenFields[featureName] = true
		}
	}

	for featureName := range alias {
		found := false
		for _, field := range fg.featureFields {
			if field == featureName {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("feature name :%s not found in the feature group fields", featureName)
		}
	}

	started := time.Now()
	featureResult, err := fg.featureGroupDao.GetFeatures(joinKeys, selectFields)
	if err != nil {
		metrics.Default().OnlineReadErrors.WithLabelValues(fg.Name, fg.onlineBackend).Inc()
		return nil, err
	}
	metrics.Default().OnlineReads.WithLabelValues(fg.Name, fg.onlineBackend).Inc()
	metrics.Default().OnlineReadDuration.WithLabelValues(fg.Name).Observe(time.Since(started).Seconds())

	for featureName, aliasName := range alias {
		for _, featureMap := range featureResult {
			if _, ok := featureMap[featureName]; ok {
				featureMap[aliasName] = featureMap[featureName]
				delete(featureMap, featureName)
			}
		}
	}

	return featureResult, nil
}

func (fg *StreamFeatureGroup) RowCount(filter string) int {
	if fg.featureGroupDao == nil {
		return 0
	}
	return fg.featureGroupDao.RowCount(filter)
}

func (fg *StreamFeatureGroup) RowCountIds(filter string) ([]string, int, error) {
	if fg.featureGroupDao == nil {
		return nil, 0, fmt.Errorf("online store is not provisioned for feature group %s", fg.Name)
	}
	return fg.featureGroupDao.RowCountIds(filter)
}

func (fg *StreamFeatureGroup) ScanAndIterateData(filter string, ch chan<- string) ([]string, error) {
	if fg.featureGroupDao == nil {
		return nil, fmt.Errorf("online store is not provisioned for feature group %s", fg.Name)
	}
	return fg.featureGroupDao.ScanAndIterateData(filter, ch)
}

func (fg *StreamFeatureGroup) GetId() int {
	return fg.FeatureGroupId
}

func (fg *StreamFeatureGroup) GetName() string {
	return fg.Name
}

func (fg *StreamFeatureGroup) GetVersion() int {
	return fg.Version
}

func (fg *StreamFeatureGroup) GetFeatureStore() *FeatureStore {
	return fg.FeatureStore
}

func (fg *StreamFeatureGroup) GetPrimaryKeys() []string {
	return fg.PrimaryKeys
}

func (fg *StreamFeatureGroup) GetPartitionKeys() []string {
	return fg.PartitionKeys
}

func (fg *StreamFeatureGroup) GetPrecombineKey() string {
	return fg.PrecombineKey
}

func (fg *StreamFeatureGroup) IsOnlineEnabled() bool {
	return fg.OnlineEnabled
}

func (fg *StreamFeatureGroup) GetFeatures() []api.Feature {
	features := make([]api.Feature, len(fg.Features))
	for i, feature := range fg.Features {
		if feature != nil {
			features[i] = *feature
		}
	}
	return features
}
