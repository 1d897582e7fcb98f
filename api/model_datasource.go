package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aliyun/aliyun-tablestore-go-sdk/tablestore"
	"github.com/go-redis/redis/v8"

	"github.com/streamhouse/streamhouse-featurestore-go-sdk/constants"
)

type Datasource struct {
	DatasourceId  int    `json:"datasource_id,omitempty"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Region        string `json:"region,omitempty"`
	VpcAddress    string `json:"vpc_address,omitempty"`
	PublicAddress string `json:"public_address,omitempty"`
	Database      string `json:"database,omitempty"`
	Token         string `json:"token,omitempty"`
	Pwd           string `json:"pwd,omitempty"`
	User          string `json:"user,omitempty"`
	RdsInstanceId string `json:"rds_instance_id,omitempty"`

	TestMode bool `json:"-"`
}

// Address picks the reachable endpoint for the current network. Inside
// the service VPC the private address is used; test mode switches to
// the public one.
func (d *Datasource) Address() string {
	if d.TestMode && d.PublicAddress != "" {
		return d.PublicAddress
	}
	return d.VpcAddress
}

func (d *Datasource) GenerateDSN(datasourceType string) (DSN string) {
	switch datasourceType {
	case constants.Datasource_Type_Postgres:
		DSN = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable&connect_timeout=10",
			d.User, d.Pwd, d.Address(), d.Database)
	case constants.Datasource_Type_Mysql:
		DSN = fmt.Sprintf("%s:%s@tcp(%s)/%s?timeout=10s", d.User, d.Pwd, d.Address(), d.Database)
	}
	return
}

func (d *Datasource) NewRedisOptions() *redis.Options {
	options := &redis.Options{
		Addr:     d.Address(),
		Password: d.Pwd,
	}
	if db, err := strconv.Atoi(d.Database); err == nil {
		options.DB = db
	}
	return options
}

func (d *Datasource) NewTableStoreClient() (client *tablestore.TableStoreClient) {
	if d.Token != "" {
		client = tablestore.NewClientWithConfig(d.Address(), d.RdsInstanceId, d.User, d.Pwd, d.Token, nil)
	} else {
		client = tablestore.NewClient(d.Address(), d.RdsInstanceId, d.User, d.Pwd)
	}
	return
}

// StreamServerURL renders the nats server list for a stream datasource.
func (d *Datasource) StreamServerURL() string {
	return streamServerURL(d.Address())
}

func streamServerURL(address string) string {
	if address == "" {
		return ""
	}
	var urls []string
	for _, host := range strings.Split(address, ",") {
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		if strings.Contains(host, "://") {
			urls = append(urls, host)
		} else {
			urls = append(urls, "nats://"+host)
		}
	}
	return strings.Join(urls, ",")
}
