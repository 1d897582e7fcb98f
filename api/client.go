package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type service struct {
	client *APIClient
}

// APIClient talks to the feature store metadata service. Every
// *ApiService shares the one underlying http client.
type APIClient struct {
	cfg        *Configuration
	httpClient *http.Client
	common     service

	InstanceApi         *InstanceApiService
	FeatureStoreApi     *FeatureStoreApiService
	FeatureGroupApi     *FeatureGroupApiService
	DatasourceApi       *DatasourceApiService
	StorageConnectorApi *StorageConnectorApiService
}

func NewAPIClient(cfg *Configuration) *APIClient {
	c := &APIClient{cfg: cfg}
	c.httpClient = &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			MaxConnsPerHost:     100,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			DialContext: (&net.Dialer{
				Timeout: 1 * time.Second,
			}).DialContext,
		},
	}

	c.common.client = c
	c.InstanceApi = (*InstanceApiService)(&c.common)
	c.FeatureStoreApi = (*FeatureStoreApiService)(&c.common)
	c.FeatureGroupApi = (*FeatureGroupApiService)(&c.common)
	c.DatasourceApi = (*DatasourceApiService)(&c.common)
	c.StorageConnectorApi = (*StorageConnectorApiService)(&c.common)
	return c
}

func (c *APIClient) GetConfig() *Configuration {
	return c.cfg
}

// RestError carries the failure detail of a metadata service call.
type RestError struct {
	Url        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestId  string `json:"request_id"`
}

func (e *RestError) Error() string {
	return fmt.Sprintf("request to %s failed: status %d, code %s, message: %s (request id: %s)",
		e.Url, e.StatusCode, e.Code, e.Message, e.RequestId)
}

type responseBody struct {
	RequestId string          `json:"request_id"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

func (c *APIClient) baseURL() string {
	domain := c.cfg.GetDomain()
	if strings.Contains(domain, "://") {
		return domain + "/api/v1"
	}
	return fmt.Sprintf("https://%s/api/v1", domain)
}

// callAPI performs one metadata request and decodes the data section of
// the response envelope into result. GETs are retried with exponential
// backoff on transport errors and 5xx answers.
func (c *APIClient) callAPI(method, path string, query url.Values, body, result interface{}) error {
	var requestData []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		requestData = data
	}

	requestURL := c.baseURL() + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	if method != http.MethodGet {
		return c.do(method, requestURL, requestData, result)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.cfg.MaxRetryTime
	return backoff.Retry(func() error {
		err := c.do(method, requestURL, requestData, result)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

func (c *APIClient) do(method, requestURL string, requestData []byte, result interface{}) error {
	var reader io.Reader
	if requestData != nil {
		reader = bytes.NewReader(requestData)
	}
	req, err := http.NewRequest(method, requestURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey "+c.cfg.ApiKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	responseData, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= http.StatusInternalServerError {
		return &RestError{Url: requestURL, StatusCode: response.StatusCode, Message: string(responseData)}
	}

	var envelope responseBody
	if err := json.Unmarshal(responseData, &envelope); err != nil {
		return fmt.Errorf("invalid response from %s: %v, body: %s", requestURL, err, string(responseData))
	}

	if response.StatusCode >= http.StatusBadRequest || (envelope.Code != "" && envelope.Code != "OK") {
		return &RestError{
			Url:        requestURL,
			StatusCode: response.StatusCode,
			Code:       envelope.Code,
			Message:    envelope.Message,
			RequestId:  envelope.RequestId,
		}
	}

	if result != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return fmt.Errorf("decode response from %s: %v", requestURL, err)
		}
	}
	return nil
}

func retryable(err error) bool {
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr.StatusCode >= http.StatusInternalServerError
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
