package api

import (
	"fmt"
	"net/http"
)

type StorageConnectorApiService service

/*
StorageConnectorApiService Get the stream connector of a feature store,
the broker that online ingestion publishes to.
  - @param featureStoreId

@return GetStorageConnectorResponse
*/
func (a *StorageConnectorApiService) GetStreamConnector(featureStoreId int) (GetStorageConnectorResponse, error) {
	var (
		localVarReturnValue GetStorageConnectorResponse
	)

	connector := StorageConnector{}
	path := fmt.Sprintf("/featurestores/%d/storageconnectors/stream", featureStoreId)
	if err := a.client.callAPI(http.MethodGet, path, nil, nil, &connector); err != nil {
		return localVarReturnValue, err
	}

	if connector.Type == "" {
		connector.Type = Connector_Type_Stream
	}

	localVarReturnValue.StorageConnector = &connector
	return localVarReturnValue, nil
}

/*
StorageConnectorApiService Get a storage connector by name
  - @param featureStoreId
  - @param name

@return GetStorageConnectorResponse
*/
func (a *StorageConnectorApiService) GetStorageConnectorByName(featureStoreId int, name string) (GetStorageConnectorResponse, error) {
	var (
		localVarReturnValue GetStorageConnectorResponse
	)

	connector := StorageConnector{}
	path := fmt.Sprintf("/featurestores/%d/storageconnectors/name/%s", featureStoreId, name)
	if err := a.client.callAPI(http.MethodGet, path, nil, nil, &connector); err != nil {
		return localVarReturnValue, err
	}

	localVarReturnValue.StorageConnector = &connector
	return localVarReturnValue, nil
}
