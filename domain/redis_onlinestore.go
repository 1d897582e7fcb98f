package domain

import (
	"fmt"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/utils"
)

type RedisOnlineStore struct {
	*api.Datasource
}

// GetTableName returns the redis key prefix of the group. The full
// table name is folded through md5 to keep keys short.
func (s *RedisOnlineStore) GetTableName(featureGroup *StreamFeatureGroup) string {
	featureStore := featureGroup.FeatureStore
	name := fmt.Sprintf("%s_%s_%d_online", featureStore.ProjectName, featureGroup.Name, featureGroup.Version)
	md5 := utils.Md5(name)
	return md5[:4] + "_"
}

func (s *RedisOnlineStore) GetDatasourceName() string {
	return s.Name
}
