package domain

import (
	"strings"
	"testing"

	"fortio.org/assert"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
)

func newTableNameFixture(t *testing.T) *StreamFeatureGroup {
	t.Helper()
	fs := &FeatureStore{FeatureStore: &api.FeatureStore{ProjectName: "proj"}}
	fg, err := NewStreamFeatureGroup(fs, "user_clicks", WithVersion(2))
	assert.NoError(t, err)
	return fg
}

func TestSQLOnlineStoreTableNames(t *testing.T) {
	fg := newTableNameFixture(t)

	pg := &PostgresOnlineStore{Datasource: &api.Datasource{Name: "pg_ds"}}
	assert.Equal(t, "proj_user_clicks_2_online", pg.GetTableName(fg))
	assert.Equal(t, "pg_ds", pg.GetDatasourceName())

	my := &MysqlOnlineStore{Datasource: &api.Datasource{Name: "my_ds"}}
	assert.Equal(t, "proj_user_clicks_2_online", my.GetTableName(fg))

	ots := &TableStoreOnlineStore{Datasource: &api.Datasource{Name: "ots_ds"}}
	assert.Equal(t, "proj_user_clicks_2_online", ots.GetTableName(fg))
}

func TestRedisOnlineStorePrefix(t *testing.T) {
	fg := newTableNameFixture(t)
	rd := &RedisOnlineStore{Datasource: &api.Datasource{Name: "rd_ds"}}

	prefix := rd.GetTableName(fg)
	assert.Equal(t, 5, len(prefix))
	assert.True(t, strings.HasSuffix(prefix, "_"))
	// Stable across calls, different groups hash apart.
	assert.Equal(t, prefix, rd.GetTableName(fg))

	other, err := NewStreamFeatureGroup(fg.FeatureStore, "other_group")
	assert.NoError(t, err)
	assert.NotEqual(t, prefix, rd.GetTableName(other))
}
