package domain

type OnlineStore interface {
	GetTableName(featureGroup *StreamFeatureGroup) string
	GetDatasourceName() string
}
