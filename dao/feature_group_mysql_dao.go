package dao

import (
	"database/sql"
	"log"

	"github.com/huandu/go-sqlbuilder"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/mysql"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/utils"
)

type FeatureGroupMysqlDao struct {
	db              *sql.DB
	table           string
	primaryKeyField string
	eventTimeColumn string
	ttl             int
	fieldTypeMap    map[string]constants.FSType
}

func NewFeatureGroupMysqlDao(config DaoConfig) *FeatureGroupMysqlDao {
	dao := FeatureGroupMysqlDao{
		table:           config.MysqlTableName,
		primaryKeyField: config.PrimaryKeyField,
		eventTimeColumn: config.EventTimeColumn,
		ttl:             config.TTL,
		fieldTypeMap:    config.FieldTypeMap,
	}
	client, err := mysql.GetMysql(config.MysqlName)
	if err != nil {
		return nil
	}

	dao.db = client.DB
	return &dao
}

func (d *FeatureGroupMysqlDao) GetFeatures(keys []interface{}, selectFields []string) ([]map[string]interface{}, error) {
	builder := sqlbuilder.MySQL.NewSelectBuilder()
	builder.Select(selectFields...)
	builder.From(d.table)
	builder.Where(builder.In(d.primaryKeyField, keys...))
	sqlQuery, args := builder.Build()

	rows, err := d.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(keys))
	values := make([]interface{}, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		rowMap := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			rowMap[column] = convertValue(values[i], d.fieldTypeMap[column])
		}
		result = append(result, rowMap)
	}

	return result, rows.Err()
}

func (d *FeatureGroupMysqlDao) RowCount(expression string) int {
	builder := sqlbuilder.MySQL.NewSelectBuilder()
	builder.Select("count(*)")
	builder.From(d.table)
	if expression != "" {
		condition, err := renderSQLCondition(expression)
		if err != nil {
			log.Println(err)
			return 0
		}
		builder.Where(condition)
	}
	sqlQuery, args := builder.Build()

	var count int
	if err := d.db.QueryRow(sqlQuery, args...).Scan(&count); err != nil {
		log.Println(err)
		return 0
	}

	return count
}

func (d *FeatureGroupMysqlDao) RowCountIds(expression string) ([]string, int, error) {
	ids, err := d.scanIds(expression)
	if err != nil {
		return nil, 0, err
	}
	return ids, len(ids), nil
}

func (d *FeatureGroupMysqlDao) ScanAndIterateData(filter string, ch chan<- string) ([]string, error) {
	if ch == nil {
		return d.scanIds(filter)
	}

	go func() {
		defer close(ch)
		ids, err := d.scanIds(filter)
		if err != nil {
			log.Println(err)
			return
		}
		for _, id := range ids {
			ch <- id
		}
	}()

	return nil, nil
}

func (d *FeatureGroupMysqlDao) scanIds(expression string) ([]string, error) {
	builder := sqlbuilder.MySQL.NewSelectBuilder()
	builder.Select(d.primaryKeyField)
	builder.From(d.table)
	if expression != "" {
		condition, err := renderSQLCondition(expression)
		if err != nil {
			return nil, err
		}
		builder.Where(condition)
	}
	sqlQuery, args := builder.Build()

	rows, err := d.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id interface{}
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if b, ok := id.([]byte); ok {
			id = string(b)
		}
		ids = append(ids, utils.ToString(id, ""))
	}

	return ids, rows.Err()
}
