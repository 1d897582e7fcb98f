package dao

import (
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
)

type DaoConfig struct {
	DatasourceType string

	PrimaryKeyField string
	EventTimeColumn string
	TTL             int

	// postgres
	PostgresName      string
	PostgresTableName string

	// mysql
	MysqlName      string
	MysqlTableName string

	// redis
	RedisName      string
	RedisKeyPrefix string

	// tablestore
	TableStoreName      string
	TableStoreTableName string

	Fields       []string
	FieldTypeMap map[string]constants.FSType
}
