package api

import (
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
)

// FeatureGroup is the wire form of one stream feature group. The
// service fills the server-assigned fields (id, positions, topic) on
// registration.
type FeatureGroup struct {
	FeatureGroupId   int                        `json:"feature_group_id,omitempty"`
	FeatureStoreId   int                        `json:"feature_store_id,omitempty"`
	ProjectName      string                     `json:"project_name,omitempty"`
	Name             string                     `json:"name,omitempty"`
	Version          int                        `json:"version,omitempty"`
	Description      string                     `json:"description,omitempty"`
	Type             string                     `json:"type,omitempty"`
	PrimaryKeys      []string                   `json:"primary_keys,omitempty"`
	PartitionKeys    []string                   `json:"partition_keys,omitempty"`
	PrecombineKey    string                     `json:"precombine_key,omitempty"`
	OnlineEnabled    bool                       `json:"online_enabled,omitempty"`
	TimeTravelFormat constants.TimeTravelFormat `json:"time_travel_format,omitempty"`
	Features         []*Feature                 `json:"features,omitempty"`
	StatisticsConfig *StatisticsConfig          `json:"statistics_config,omitempty"`
	OnlineTopicName  string                     `json:"online_topic_name,omitempty"`
	EventTimeColumn  string                     `json:"event_time_column,omitempty"`
	OnlineConfig     *OnlineConfig              `json:"online_config,omitempty"`
	StorageConnector *StorageConnector          `json:"storage_connector,omitempty"`
	Path             string                     `json:"path,omitempty"`
	DatasourceId     int                        `json:"datasource_id,omitempty"`
	Owner            string                     `json:"owner,omitempty"`
	Tags             []string                   `json:"tags,omitempty"`
	Ttl              int                        `json:"ttl,omitempty"`
}

// FieldTypeMap indexes the declared features by name.
func (g *FeatureGroup) FieldTypeMap() map[string]constants.FSType {
	fieldTypeMap := make(map[string]constants.FSType, len(g.Features))
	for _, feature := range g.Features {
		fieldTypeMap[feature.Name] = feature.Type
	}
	return fieldTypeMap
}

func (g *FeatureGroup) FeatureNames() []string {
	names := make([]string, 0, len(g.Features))
	for _, feature := range g.Features {
		names = append(names, feature.Name)
	}
	return names
}
