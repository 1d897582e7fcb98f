package domain

import (
	"fmt"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/mysql"
	fsnats "github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/nats"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/postgres"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/redis"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/tablestore"
)

type FeatureStore struct {
	*api.FeatureStore
	OnlineStore     OnlineStore
	FeatureGroupMap map[string]*StreamFeatureGroup
}

func NewFeatureStore(fs *api.FeatureStore, isInitClient bool) (*FeatureStore, error) {
	featureStore := FeatureStore{
		FeatureStore:    fs,
		FeatureGroupMap: make(map[string]*StreamFeatureGroup),
	}

	if fs.OnlineDataSource != nil {
		switch fs.OnlineDatasourceType {
		case constants.Datasource_Type_Postgres:
			onlineStore := &PostgresOnlineStore{
				Datasource: fs.OnlineDataSource,
			}
			if isInitClient {
				dsn := onlineStore.Datasource.GenerateDSN(constants.Datasource_Type_Postgres)
				postgres.RegisterPostgres(onlineStore.Name, dsn)
			}
			featureStore.OnlineStore = onlineStore
		case constants.Datasource_Type_Mysql:
			onlineStore := &MysqlOnlineStore{
				Datasource: fs.OnlineDataSource,
			}
			if isInitClient {
				dsn := onlineStore.Datasource.GenerateDSN(constants.Datasource_Type_Mysql)
				mysql.RegisterMysql(onlineStore.Name, dsn)
			}
			featureStore.OnlineStore = onlineStore
		case constants.Datasource_Type_Redis:
			onlineStore := &RedisOnlineStore{
				Datasource: fs.OnlineDataSource,
			}
			if isInitClient {
				redis.RegisterRedisClient(onlineStore.Name, onlineStore.Datasource.NewRedisOptions())
			}
			featureStore.OnlineStore = onlineStore
		case constants.Datasource_Type_TableStore:
			onlineStore := &TableStoreOnlineStore{
				Datasource: fs.OnlineDataSource,
			}
			if isInitClient {
				client := onlineStore.Datasource.NewTableStoreClient()
				tablestore.RegisterTableStoreClient(onlineStore.Name, client)
			}
			featureStore.OnlineStore = onlineStore
		default:
			return nil, fmt.Errorf("not support onlinestore type:%s", fs.OnlineDatasourceType)
		}
	}

	if isInitClient && fs.StreamDataSource != nil {
		config := fsnats.Config{
			URL:        fs.StreamDataSource.StreamServerURL(),
			User:       fs.StreamDataSource.User,
			Password:   fs.StreamDataSource.Pwd,
			Token:      fs.StreamDataSource.Token,
			ClientName: fmt.Sprintf("%s-featurestore", fs.ProjectName),
		}
		if fs.StreamConnector != nil {
			config.SubjectPrefix = fs.StreamConnector.SubjectPrefix
		}
		if err := fsnats.RegisterStreamClient(fs.StreamDataSource.Name, config); err != nil {
			return nil, err
		}
	}

	return &featureStore, nil
}

func (s *FeatureStore) GetFeatureGroup(name string, version int) *StreamFeatureGroup {
	return s.FeatureGroupMap[featureGroupKey(name, version)]
}

func (s *FeatureStore) AddFeatureGroup(featureGroup *StreamFeatureGroup) {
	s.FeatureGroupMap[featureGroupKey(featureGroup.Name, featureGroup.Version)] = featureGroup
}

func (s *FeatureStore) RemoveFeatureGroup(name string, version int) {
	delete(s.FeatureGroupMap, featureGroupKey(name, version))
}

func (s *FeatureStore) StreamDatasourceName() string {
	if s.StreamDataSource == nil {
		return ""
	}
	return s.StreamDataSource.Name
}

func featureGroupKey(name string, version int) string {
	return fmt.Sprintf("%s_%d", name, version)
}
