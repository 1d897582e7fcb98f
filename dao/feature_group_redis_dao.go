package dao

import (
	"context"

	goredis "github.com/go-redis/redis/v8"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	fsredis "github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/redis"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/utils"
)

// FeatureGroupRedisDao reads feature hashes keyed by the group prefix
// plus the primary key value. Filter scans are not supported on redis.
type FeatureGroupRedisDao struct {
	UnimplementedFeatureGroupDao
	client          *goredis.Client
	prefix          string
	primaryKeyField string
	fieldTypeMap    map[string]constants.FSType
}

func NewFeatureGroupRedisDao(config DaoConfig) *FeatureGroupRedisDao {
	dao := FeatureGroupRedisDao{
		prefix:          config.RedisKeyPrefix,
		primaryKeyField: config.PrimaryKeyField,
		fieldTypeMap:    config.FieldTypeMap,
	}
	client, err := fsredis.GetRedisClient(config.RedisName)
	if err != nil {
		return nil
	}

	dao.client = client.GetClient()
	return &dao
}

func (d *FeatureGroupRedisDao) GetFeatures(keys []interface{}, selectFields []string) ([]map[string]interface{}, error) {
	fields := make([]string, 0, len(selectFields))
	for _, field := range selectFields {
		if field != d.primaryKeyField {
			fields = append(fields, field)
		}
	}

	result := make([]map[string]interface{}, 0, len(keys))
	if len(fields) == 0 {
		for _, key := range keys {
			result = append(result, map[string]interface{}{d.primaryKeyField: key})
		}
		return result, nil
	}

	ctx := context.Background()
	pipeline := d.client.Pipeline()
	cmds := make([]*goredis.SliceCmd, 0, len(keys))
	for _, key := range keys {
		redisKey := d.prefix + utils.ToString(key, "")
		cmds = append(cmds, pipeline.HMGet(ctx, redisKey, fields...))
	}
	if _, err := pipeline.Exec(ctx); err != nil && err != goredis.Nil {
		return nil, err
	}

	for i, cmd := range cmds {
		values, err := cmd.Result()
		if err != nil {
			if err == goredis.Nil {
				continue
			}
			return nil, err
		}

		newMap := make(map[string]interface{}, len(fields)+1)
		newMap[d.primaryKeyField] = keys[i]
		found := false
		for j, value := range values {
			if value == nil {
				continue
			}
			found = true
			newMap[fields[j]] = convertValue(value, d.fieldTypeMap[fields[j]])
		}
		if found {
			result = append(result, newMap)
		}
	}

	return result, nil
}
