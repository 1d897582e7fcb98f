package api

import (
	"fmt"
	"net/http"
	"net/url"
)

type FeatureStoreApiService service

/*
FeatureStoreApiService List FeatureStores visible to the caller

@return ListFeatureStoresResponse
*/
func (a *FeatureStoreApiService) ListFeatureStores() (ListFeatureStoresResponse, error) {
	var (
		localVarReturnValue ListFeatureStoresResponse
	)

	var data struct {
		TotalCount    int             `json:"total_count"`
		FeatureStores []*FeatureStore `json:"feature_stores"`
	}
	query := url.Values{}
	query.Set("pagesize", "100")
	query.Set("pagenumber", "1")
	if err := a.client.callAPI(http.MethodGet, "/featurestores", query, nil, &data); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.TotalCount = data.TotalCount
	localVarReturnValue.FeatureStores = data.FeatureStores
	return localVarReturnValue, nil
}

/*
FeatureStoreApiService Get FeatureStore By project name
  - @param projectName

@return *FeatureStore
*/
func (a *FeatureStoreApiService) GetFeatureStoreByProject(projectName string) (*FeatureStore, error) {
	response, err := a.ListFeatureStores()
	if err != nil {
		return nil, err
	}

	for _, featureStore := range response.FeatureStores {
		if featureStore.ProjectName == projectName {
			return featureStore, nil
		}
	}

	return nil, fmt.Errorf("feature store not found for project %s", projectName)
}
