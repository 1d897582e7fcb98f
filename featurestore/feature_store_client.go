package featurestore

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/antihax/optional"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/api"
	fsnats "github.com/streamhouse/streamhouse-featurestore-go-sdk/datasource/nats"
	"github.com/streamhouse/streamhouse-featurestore-go-sdk/domain"
)

// Logger is the minimal logging surface of the client. The standard
// library log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
}

type ClientOption func(c *FeatureStoreClient)

func WithLogger(l Logger) ClientOption {
	return func(e *FeatureStoreClient) {
		e.Logger = l
	}
}

func WithErrorLogger(l Logger) ClientOption {
	return func(e *FeatureStoreClient) {
		e.ErrorLogger = l
	}
}

// WithDomain set custom domain
func WithDomain(domain string) ClientOption {
	return func(e *FeatureStoreClient) {
		e.domain = domain
	}
}

func WithLoopData(loopLoad bool) ClientOption {
	return func(e *FeatureStoreClient) {
		e.loopLoadData = loopLoad
	}
}

func WithNoDatasourceInitClient() ClientOption {
	return func(e *FeatureStoreClient) {
		e.datasourceInitClient = false
	}

}

func WithTestMode() ClientOption {
	return func(e *FeatureStoreClient) {
		e.testMode = true
	}
}

type FeatureStoreClient struct {
	// loopLoadData flag to invoke loopLoadFeatureStoreData function
	loopLoadData bool

	// datasourceInitClient flag to init onlinestore and stream clients
	datasourceInitClient bool

	domain string

	client *api.APIClient

	featureStoreMap map[string]*domain.FeatureStore

	// Logger specifies a logger used to report internal changes within the client
	Logger Logger

	// ErrorLogger is the logger to report errors
	ErrorLogger Logger

	// testMode to reach datasources by public address
	testMode bool

	stopCh    chan struct{}
	closeOnce sync.Once
}

func NewFeatureStoreClient(regionId, apiKey, projectName string, opts ...ClientOption) (*FeatureStoreClient, error) {
	client := FeatureStoreClient{
		featureStoreMap:      make(map[string]*domain.FeatureStore, 0),
		loopLoadData:         true,
		datasourceInitClient: true,
		stopCh:               make(chan struct{}),
	}

	for _, opt := range opts {
		opt(&client)
	}

	cfg := api.NewConfiguration(regionId, apiKey, projectName)

	if client.testMode {
		cfg.SetDomain(fmt.Sprintf("featurestore.%s.streamhouse.io", regionId))
	}
	if client.domain != "" {
		cfg.SetDomain(client.domain)
	}

	client.client = api.NewAPIClient(cfg)

	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := client.LoadFeatureStoreData(); err != nil {
		return nil, err
	}

	if client.loopLoadData {
		go client.loopLoadFeatureStoreData()
	}

	return &client, nil
}

// Validate check the FeatureStoreClient value
func (c *FeatureStoreClient) Validate() error {
	// check instance
	if _, err := c.client.InstanceApi.GetInstance(); err != nil {
		return err
	}

	return nil
}

func (c *FeatureStoreClient) GetFeatureStore(name string) (*domain.FeatureStore, error) {
	featureStore, ok := c.featureStoreMap[name]
	if ok {
		return featureStore, nil
	}

	return nil, fmt.Errorf("not found feature store, name:%s", name)
}

func (c *FeatureStoreClient) logError(err error) {
	if c.ErrorLogger != nil {
		c.ErrorLogger.Printf(err.Error())
		return
	}

	if c.Logger != nil {
		c.Logger.Printf(err.Error())
	}
}

// LoadFeatureStoreData specifies a function to load data from the feature store server
func (c *FeatureStoreClient) LoadFeatureStoreData() error {
	featureStoreData := make(map[string]*domain.FeatureStore, 0)

	listFeatureStoresResponse, err := c.client.FeatureStoreApi.ListFeatureStores()
	if err != nil {
		c.logError(fmt.Errorf("list feature stores error, err=%v", err))
		return err
	}

	for _, fs := range listFeatureStoresResponse.FeatureStores {
		if fs.ProjectName != c.client.GetConfig().ProjectName {
			continue
		}

		// get online datasource
		if fs.OnlineDatasourceId > 0 {
			getDatasourceResponse, err := c.client.DatasourceApi.DatasourceDatasourceIdGet(fs.OnlineDatasourceId)
			if err != nil {
				c.logError(fmt.Errorf("get datasource error, err=%v", err))
				return err
			}

			fs.OnlineDataSource = getDatasourceResponse.Datasource
			fs.OnlineDataSource.TestMode = c.testMode
		}

		// get stream datasource
		if fs.StreamDatasourceId > 0 {
			getDatasourceResponse, err := c.client.DatasourceApi.DatasourceDatasourceIdGet(fs.StreamDatasourceId)
			if err != nil {
				c.logError(fmt.Errorf("get datasource error, err=%v", err))
				return err
			}

			fs.StreamDataSource = getDatasourceResponse.Datasource
			fs.StreamDataSource.TestMode = c.testMode
		}

		// the stream connector carries the subject prefix, groups still
		// publish without one
		getConnectorResponse, err := c.client.StorageConnectorApi.GetStreamConnector(fs.FeatureStoreId)
		if err != nil {
			c.logError(fmt.Errorf("get stream connector error, err=%v", err))
		} else {
			fs.StreamConnector = getConnectorResponse.StorageConnector
		}

		featureStore, err := domain.NewFeatureStore(fs, c.datasourceInitClient)
		if err != nil {
			c.logError(fmt.Errorf("new feature store error, err=%v", err))
			return err
		}
		featureStoreData[featureStore.ProjectName] = featureStore

		var (
			pagesize   = 100
			pagenumber = 1
		)
		// get feature groups
		for {
			opts := api.ListFeatureGroupsOpts{
				Pagesize:   optional.NewInt32(int32(pagesize)),
				Pagenumber: optional.NewInt32(int32(pagenumber)),
			}
			listFeatureGroups, err := c.client.FeatureGroupApi.ListFeatureGroups(fs.FeatureStoreId, &opts)
			if err != nil {
				c.logError(fmt.Errorf("list feature groups error, err=%v", err))
				return err
			}

			for _, group := range listFeatureGroups.FeatureGroups {
				getFeatureGroupResponse, err := c.client.FeatureGroupApi.GetFeatureGroupById(fs.FeatureStoreId, group.FeatureGroupId)
				if err != nil {
					c.logError(fmt.Errorf("get feature group error, err=%v", err))
					return err
				}

				featureGroup := domain.NewStreamFeatureGroupFromModel(getFeatureGroupResponse.FeatureGroup, featureStore)
				featureStore.AddFeatureGroup(featureGroup)
			}

			if len(listFeatureGroups.FeatureGroups) == 0 || pagesize*pagenumber > listFeatureGroups.TotalCount {
				break
			}

			pagenumber++

		}

	}

	if len(featureStoreData) > 0 {
		c.featureStoreMap = featureStoreData
	}

	return nil
}

func (c *FeatureStoreClient) loopLoadFeatureStoreData() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			if err := c.LoadFeatureStoreData(); err != nil {
				c.logError(err)
			}
		}
	}
}

// GetStreamFeatureGroup returns the cached group of the configured
// project by name and version.
func (c *FeatureStoreClient) GetStreamFeatureGroup(name string, version int) (*domain.StreamFeatureGroup, error) {
	featureStore, err := c.GetFeatureStore(c.client.GetConfig().ProjectName)
	if err != nil {
		return nil, err
	}

	featureGroup := featureStore.GetFeatureGroup(name, version)
	if featureGroup == nil {
		return nil, fmt.Errorf("not found feature group, name:%s", name)
	}

	return featureGroup, nil
}

// CreateStreamFeatureGroup registers the group with the metadata
// service and returns the server-side record bound to the store.
func (c *FeatureStoreClient) CreateStreamFeatureGroup(featureGroup *domain.StreamFeatureGroup) (*domain.StreamFeatureGroup, error) {
	featureStore, err := c.GetFeatureStore(c.client.GetConfig().ProjectName)
	if err != nil {
		return nil, err
	}

	featureGroup.FeatureGroup.FeatureStoreId = featureStore.FeatureStoreId
	createFeatureGroupResponse, err := c.client.FeatureGroupApi.CreateFeatureGroup(featureGroup.FeatureGroup)
	if err != nil {
		return nil, err
	}

	created := domain.NewStreamFeatureGroupFromModel(createFeatureGroupResponse.FeatureGroup, featureStore)
	featureStore.AddFeatureGroup(created)
	return created, nil
}

// GetOrCreateStreamFeatureGroup looks the group up in the cache, then
// on the server, and registers it when neither knows it.
func (c *FeatureStoreClient) GetOrCreateStreamFeatureGroup(name string, version int, opts ...domain.StreamFeatureGroupOption) (*domain.StreamFeatureGroup, error) {
	featureStore, err := c.GetFeatureStore(c.client.GetConfig().ProjectName)
	if err != nil {
		return nil, err
	}

	if featureGroup := featureStore.GetFeatureGroup(name, version); featureGroup != nil {
		return featureGroup, nil
	}

	getFeatureGroupResponse, err := c.client.FeatureGroupApi.GetFeatureGroupByName(featureStore.FeatureStoreId, name, version)
	if err == nil {
		featureGroup := domain.NewStreamFeatureGroupFromModel(getFeatureGroupResponse.FeatureGroup, featureStore)
		featureStore.AddFeatureGroup(featureGroup)
		return featureGroup, nil
	}

	var restError *api.RestError
	if !errors.As(err, &restError) || restError.StatusCode != http.StatusNotFound {
		return nil, err
	}

	if version > 0 {
		opts = append(opts, domain.WithVersion(version))
	}
	featureGroup, err := domain.NewStreamFeatureGroup(featureStore, name, opts...)
	if err != nil {
		return nil, err
	}

	return c.CreateStreamFeatureGroup(featureGroup)
}

// UpdateFeatureGroup sends a metadata update built with
// NewStreamFeatureGroupForUpdate and refreshes the cached record.
func (c *FeatureStoreClient) UpdateFeatureGroup(featureGroup *domain.StreamFeatureGroup) (*domain.StreamFeatureGroup, error) {
	featureStore, err := c.GetFeatureStore(c.client.GetConfig().ProjectName)
	if err != nil {
		return nil, err
	}

	updateFeatureGroupResponse, err := c.client.FeatureGroupApi.UpdateFeatureGroup(featureStore.FeatureStoreId, featureGroup.FeatureGroup)
	if err != nil {
		return nil, err
	}

	updated := domain.NewStreamFeatureGroupFromModel(updateFeatureGroupResponse.FeatureGroup, featureStore)
	featureStore.AddFeatureGroup(updated)
	return updated, nil
}

// DeleteFeatureGroup removes the group from the metadata service and
// from the cache.
func (c *FeatureStoreClient) DeleteFeatureGroup(name string, version int) error {
	featureStore, err := c.GetFeatureStore(c.client.GetConfig().ProjectName)
	if err != nil {
		return err
	}

	featureGroup := featureStore.GetFeatureGroup(name, version)
	if featureGroup == nil {
		return fmt.Errorf("not found feature group, name:%s", name)
	}

	if err := c.client.FeatureGroupApi.DeleteFeatureGroup(featureStore.FeatureStoreId, featureGroup.FeatureGroupId); err != nil {
		return err
	}

	featureStore.RemoveFeatureGroup(name, version)
	return nil
}

// Close stops the refresh loop and drains the registered stream
// clients.
func (c *FeatureStoreClient) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCh)
		for _, featureStore := range c.featureStoreMap {
			if name := featureStore.StreamDatasourceName(); name != "" {
				fsnats.RemoveStreamClient(name)
			}
		}
	})
}
