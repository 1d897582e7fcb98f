package domain

import (
	"fmt"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
)

type TableStoreOnlineStore struct {
	*api.Datasource
}

func (s *TableStoreOnlineStore) GetTableName(featureGroup *StreamFeatureGroup) string {
	featureStore := featureGroup.FeatureStore
	return fmt.Sprintf("%s_%s_%d_online", featureStore.ProjectName, featureGroup.Name, featureGroup.Version)
}

func (s *TableStoreOnlineStore) GetDatasourceName() string {
	return s.Name
}
