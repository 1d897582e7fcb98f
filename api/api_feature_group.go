package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/antihax/optional"
)

type FeatureGroupApiService service

type ListFeatureGroupsOpts struct {
	Pagesize   optional.Int32
	Pagenumber optional.Int32
	Owner      optional.String
	Tag        optional.String
}

/*
FeatureGroupApiService Register a new stream feature group
  - @param featureGroup the group to register, feature_store_id must be set

@return CreateFeatureGroupResponse
*/
func (a *FeatureGroupApiService) CreateFeatureGroup(featureGroup *FeatureGroup) (CreateFeatureGroupResponse, error) {
	var (
		localVarReturnValue CreateFeatureGroupResponse
	)

	if featureGroup.FeatureStoreId == 0 {
		return localVarReturnValue, fmt.Errorf("feature_store_id is required to create a feature group")
	}

	created := FeatureGroup{}
	path := fmt.Sprintf("/featurestores/%d/featuregroups", featureGroup.FeatureStoreId)
	if err := a.client.callAPI(http.MethodPost, path, nil, featureGroup, &created); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.FeatureGroup = &created
	return localVarReturnValue, nil
}

/*
FeatureGroupApiService Get FeatureGroup By ID
  - @param featureStoreId
  - @param featureGroupId

@return GetFeatureGroupResponse
*/
func (a *FeatureGroupApiService) GetFeatureGroupById(featureStoreId, featureGroupId int) (GetFeatureGroupResponse, error) {
	var (
		localVarReturnValue GetFeatureGroupResponse
	)

	featureGroup := FeatureGroup{}
	path := fmt.Sprintf("/featurestores/%d/featuregroups/%d", featureStoreId, featureGroupId)
	if err := a.client.callAPI(http.MethodGet, path, nil, nil, &featureGroup); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.FeatureGroup = &featureGroup
	return localVarReturnValue, nil
}

/*
FeatureGroupApiService Get FeatureGroup By name and version
  - @param featureStoreId
  - @param name
  - @param version 0 resolves the latest version

@return GetFeatureGroupResponse
*/
func (a *FeatureGroupApiService) GetFeatureGroupByName(featureStoreId int, name string, version int) (GetFeatureGroupResponse, error) {
	var (
		localVarReturnValue GetFeatureGroupResponse
	)

	query := url.Values{}
	if version > 0 {
		query.Set("version", strconv.Itoa(version))
	}
	featureGroup := FeatureGroup{}
	path := fmt.Sprintf("/featurestores/%d/featuregroups/name/%s", featureStoreId, url.PathEscape(name))
	if err := a.client.callAPI(http.MethodGet, path, query, nil, &featureGroup); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.FeatureGroup = &featureGroup
	return localVarReturnValue, nil
}

/*
FeatureGroupApiService List FeatureGroups
  - @param featureStoreId
  - @param opts optional paging and filter parameters

@return ListFeatureGroupsResponse
*/
func (a *FeatureGroupApiService) ListFeatureGroups(featureStoreId int, opts *ListFeatureGroupsOpts) (ListFeatureGroupsResponse, error) {
	var (
		localVarReturnValue ListFeatureGroupsResponse
	)

	query := url.Values{}
	query.Set("pagesize", "100")
	query.Set("pagenumber", "1")
	if opts != nil {
		if opts.Pagesize.IsSet() {
			query.Set("pagesize", strconv.Itoa(int(opts.Pagesize.Value())))
		}
		if opts.Pagenumber.IsSet() {
			query.Set("pagenumber", strconv.Itoa(int(opts.Pagenumber.Value())))
		}
		if opts.Owner.IsSet() {
			query.Set("owner", opts.Owner.Value())
		}
		if opts.Tag.IsSet() {
			query.Set("tag", opts.Tag.Value())
		}
	}

	var data struct {
		TotalCount    int             `json:"total_count"`
		FeatureGroups []*FeatureGroup `json:"feature_groups"`
	}
	path := fmt.Sprintf("/featurestores/%d/featuregroups", featureStoreId)
	if err := a.client.callAPI(http.MethodGet, path, query, nil, &data); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.TotalCount = data.TotalCount
	localVarReturnValue.FeatureGroups = data.FeatureGroups
	return localVarReturnValue, nil
}

/*
FeatureGroupApiService Update an existing FeatureGroup
  - @param featureStoreId
  - @param featureGroup update payload carrying feature_group_id

@return GetFeatureGroupResponse
*/
func (a *FeatureGroupApiService) UpdateFeatureGroup(featureStoreId int, featureGroup *FeatureGroup) (GetFeatureGroupResponse, error) {
	var (
		localVarReturnValue GetFeatureGroupResponse
	)

	if featureGroup.FeatureGroupId == 0 {
		return localVarReturnValue, fmt.Errorf("feature_group_id is required to update a feature group")
	}

	updated := FeatureGroup{}
	path := fmt.Sprintf("/featurestores/%d/featuregroups/%d", featureStoreId, featureGroup.FeatureGroupId)
	if err := a.client.callAPI(http.MethodPut, path, nil, featureGroup, &updated); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.FeatureGroup = &updated
	return localVarReturnValue, nil
}

/*
FeatureGroupApiService Delete FeatureGroup By ID
  - @param featureStoreId
  - @param featureGroupId
*/
func (a *FeatureGroupApiService) DeleteFeatureGroup(featureStoreId, featureGroupId int) error {
	path := fmt.Sprintf("/featurestores/%d/featuregroups/%d", featureStoreId, featureGroupId)
	return a.client.callAPI(http.MethodDelete, path, nil, nil, nil)
}
