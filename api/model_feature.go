package api

import "github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"

type Feature struct {
	Name         string           `json:"name,omitempty"`
	Type         constants.FSType `json:"type,omitempty"`
	Description  string           `json:"description,omitempty"`
	IsPartition  bool             `json:"is_partition,omitempty"`
	IsPrimaryKey bool             `json:"is_primary_key,omitempty"`
	IsEventTime  bool             `json:"is_event_time,omitempty"`
	DefaultValue string           `json:"default_value,omitempty"`
	Position     int              `json:"position,omitempty"`
}
