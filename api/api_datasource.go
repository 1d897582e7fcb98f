package api

import (
	"fmt"
	"net/http"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
)

type DatasourceApiService service

/*
DatasourceApiService Get datasource By datasource_id
  - @param datasourceId

@return GetDatasourceResponse
*/
func (a *DatasourceApiService) DatasourceDatasourceIdGet(datasourceId int) (GetDatasourceResponse, error) {
	var (
		localVarReturnValue GetDatasourceResponse
	)

	datasource := Datasource{}
	path := fmt.Sprintf("/datasources/%d", datasourceId)
	if err := a.client.callAPI(http.MethodGet, path, nil, nil, &datasource); err != nil {
		return localVarReturnValue, err
	}

	datasource.DatasourceId = datasourceId
	if datasource.Region == "" {
		datasource.Region = a.client.cfg.regionId
	}

	switch datasource.Type {
	case "Postgres", "postgres":
		datasource.Type = constants.Datasource_Type_Postgres
	case "Mysql", "mysql", "MySQL":
		datasource.Type = constants.Datasource_Type_Mysql
	case "Redis", "redis":
		datasource.Type = constants.Datasource_Type_Redis
	case "TableStore", "Tablestore", "tablestore":
		datasource.Type = constants.Datasource_Type_TableStore
	case "Stream", "stream", "Nats", "nats":
		datasource.Type = constants.Datasource_Type_Stream
	default:
		return localVarReturnValue, fmt.Errorf("unsupported datasource type: %s", datasource.Type)
	}

	localVarReturnValue.Datasource = &datasource
	return localVarReturnValue, nil
}
