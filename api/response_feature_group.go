package api

type ListFeatureGroupsResponse struct {
	TotalCount    int `json:"total_count"`
	FeatureGroups []*FeatureGroup
}

type GetFeatureGroupResponse struct {
	FeatureGroup *FeatureGroup
}

type CreateFeatureGroupResponse struct {
	FeatureGroup *FeatureGroup
}

type ListFeatureStoresResponse struct {
	TotalCount    int `json:"total_count"`
	FeatureStores []*FeatureStore
}

type GetDatasourceResponse struct {
	Datasource *Datasource
}

type GetStorageConnectorResponse struct {
	StorageConnector *StorageConnector
}

type GetInstanceResponse struct {
	Instance *Instance
}
