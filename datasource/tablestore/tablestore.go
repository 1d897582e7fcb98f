package tablestore

import (
	"fmt"

	aliotsclient "github.com/aliyun/aliyun-tablestore-go-sdk/tablestore"
)

type TableStoreClient struct {
	client *aliotsclient.TableStoreClient
}

var (
	tablestoreInstances = make(map[string]*TableStoreClient)
)

func RegisterTableStoreClient(name string, client *aliotsclient.TableStoreClient) {
	p := &TableStoreClient{}
	if _, ok := tablestoreInstances[name]; !ok {
		p.client = client
		tablestoreInstances[name] = p
	}
}

func GetTableStoreClient(name string) (*TableStoreClient, error) {
	if _, ok := tablestoreInstances[name]; !ok {
		return nil, fmt.Errorf("TableStoreClient not found, name:%s", name)
	}

	return tablestoreInstances[name], nil
}

func (o *TableStoreClient) GetClient() *aliotsclient.TableStoreClient {
	return o.client
}
