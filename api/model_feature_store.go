package api

// FeatureStore is the project-scoped store holding a project's feature
// groups and the datasources they are served from.
type FeatureStore struct {
	FeatureStoreId       int    `json:"feature_store_id,omitempty"`
	FeatureStoreName     string `json:"feature_store_name"`
	ProjectId            int    `json:"project_id,omitempty"`
	ProjectName          string `json:"project_name"`
	Description          string `json:"description,omitempty"`
	OnlineDatasourceId   int    `json:"online_datasource_id,omitempty"`
	StreamDatasourceId   int    `json:"stream_datasource_id,omitempty"`
	OnlineDatasourceType string `json:"online_datasource_type,omitempty"`
	FeatureGroupCount    int    `json:"feature_group_count,omitempty"`

	OnlineDataSource *Datasource       `json:"-"`
	StreamDataSource *Datasource       `json:"-"`
	StreamConnector  *StorageConnector `json:"-"`
}
