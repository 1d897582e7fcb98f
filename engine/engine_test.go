package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fortio.org/assert"
)

func TestInsertStreamRejectsEmptyName(t *testing.T) {
	e := NewFeatureGroupEngine()
	_, err := e.InsertStream(context.Background(), ProducerSpec{}, map[string]string{})
	assert.Error(t, err)
}

func TestInsertStreamRejectsUnregisteredGroup(t *testing.T) {
	e := NewFeatureGroupEngine()
	spec := ProducerSpec{FeatureGroupName: "user_clicks"}
	_, err := e.InsertStream(context.Background(), spec, map[string]string{})
	assert.True(t, errors.Is(err, ErrNotRegistered))
	assert.True(t, strings.Contains(err.Error(), "user_clicks"))
}

func TestInsertStreamUnknownDatasource(t *testing.T) {
	e := NewFeatureGroupEngine()
	spec := ProducerSpec{
		FeatureGroupName: "user_clicks",
		FeatureGroupId:   11,
		DatasourceName:   "no_such_datasource",
	}
	_, err := e.InsertStream(context.Background(), spec, map[string]string{})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no_such_datasource"))

	// The datasource write option overrides the one carried by the group.
	_, err = e.InsertStream(context.Background(), spec, map[string]string{
		WriteOptionDatasource: "another_missing_datasource",
	})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "another_missing_datasource"))
}

func TestIsValidSubject(t *testing.T) {
	testcases := []struct {
		subject string
		valid   bool
	}{
		{"", false},
		{"topic", true},
		{"prefix.topic", true},
		{"prefix..topic", false},
		{"prefix.*.topic", false},
		{"prefix.>", false},
		{"prefix.to pic", false},
		{"5_11_user_clicks_1_onlinefs", true},
	}
	for _, tc := range testcases {
		t.Run(tc.subject, func(t *testing.T) {
			assert.Equal(t, tc.valid, isValidSubject(tc.subject))
		})
	}
}
