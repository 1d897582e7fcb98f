package domain

import (
	"context"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/engine"
)

// FeatureGroup is the capability surface shared by every feature group
// binding. SupportsDirectWrite tells callers whether the record
// collection path is usable before they hit the runtime error.
type FeatureGroup interface {
	GetId() int
	GetName() string
	GetVersion() int
	GetFeatureStore() *FeatureStore
	GetPrimaryKeys() []string
	GetPartitionKeys() []string
	GetPrecombineKey() string
	IsOnlineEnabled() bool

	SupportsDirectWrite() bool

	InsertStream(ctx context.Context) (*engine.StreamProducer, error)
	InsertStreamWithOptions(ctx context.Context, writeOptions map[string]string) (*engine.StreamProducer, error)
	InsertRecords(ctx context.Context, records []map[string]interface{}) error
	InsertRecordsWithOptions(ctx context.Context, records []map[string]interface{}, writeOptions map[string]string) error

	GetOnlineFeatures(joinKeys []interface{}, features []string, alias map[string]string) ([]map[string]interface{}, error)
	RowCount(filter string) int
	RowCountIds(filter string) ([]string, int, error)
	ScanAndIterateData(filter string, ch chan<- string) ([]string, error)
}

// streamEngine is what the entity needs from the ingestion engine.
type streamEngine interface {
	InsertStream(ctx context.Context, spec engine.ProducerSpec, writeOptions map[string]string) (*engine.StreamProducer, error)
}

var _ FeatureGroup = (*StreamFeatureGroup)(nil)
var _ streamEngine = (*engine.FeatureGroupEngine)(nil)
