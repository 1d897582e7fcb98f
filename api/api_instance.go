package api

import (
	"net/http"
)

type InstanceApiService service

/*
InstanceApiService Get the feature store instance bound to the api key

@return GetInstanceResponse
*/
func (a *InstanceApiService) GetInstance() (GetInstanceResponse, error) {
	var (
		localVarReturnValue GetInstanceResponse
	)

	instance := Instance{}
	if err := a.client.callAPI(http.MethodGet, "/instance", nil, nil, &instance); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.Instance = &instance
	return localVarReturnValue, nil
}
