package domain

import (
	"fmt"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
)

type MysqlOnlineStore struct {
	*api.Datasource
}

func (s *MysqlOnlineStore) GetTableName(featureGroup *StreamFeatureGroup) string {
	featureStore := featureGroup.FeatureStore
	return fmt.Sprintf("%s_%s_%d_online", featureStore.ProjectName, featureGroup.Name, featureGroup.Version)
}

func (s *MysqlOnlineStore) GetDatasourceName() string {
	return s.Name
}
