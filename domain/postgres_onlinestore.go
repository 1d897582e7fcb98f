package domain

import (
	"fmt"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
)

type PostgresOnlineStore struct {
	*api.Datasource
}

func (s *PostgresOnlineStore) GetTableName(featureGroup *StreamFeatureGroup) string {
	featureStore := featureGroup.FeatureStore
	return fmt.Sprintf("%s_%s_%d_online", featureStore.ProjectName, featureGroup.Name, featureGroup.Version)
}

func (s *PostgresOnlineStore) GetDatasourceName() string {
	return s.Name
}
