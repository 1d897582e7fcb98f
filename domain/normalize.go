package domain

import (
	"strings"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
)

// NormalizeKeys lowercases every key while keeping the input order.
// The online storage engines match key columns case-insensitively, so
// the canonical form is fixed at construction.
func NormalizeKeys(keys []string) []string {
	if keys == nil {
		return nil
	}
	normalized := make([]string, len(keys))
	for i, key := range keys {
		normalized[i] = strings.ToLower(key)
	}
	return normalized
}

// normalizeFeatureGroup applies the construction-time canonicalization
// to a feature group model: key lowercasing plus the time travel format
// and statistics defaults. It mutates the model in place and is the
// only place these rules live.
func normalizeFeatureGroup(model *api.FeatureGroup) {
	model.PrimaryKeys = NormalizeKeys(model.PrimaryKeys)
	model.PartitionKeys = NormalizeKeys(model.PartitionKeys)
	model.PrecombineKey = strings.ToLower(model.PrecombineKey)

	if model.TimeTravelFormat == "" {
		model.TimeTravelFormat = constants.Default_Time_Travel_Format
	}
	if model.StatisticsConfig == nil {
		model.StatisticsConfig = api.DefaultStatisticsConfig()
	}
}
