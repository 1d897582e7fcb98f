package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fortio.org/assert"
)

func newTestClient(serverURL string) *APIClient {
	cfg := NewConfiguration("eu-central-1", "test-key", "proj")
	cfg.SetDomain(serverURL)
	cfg.MaxRetryTime = 10 * time.Second
	return NewAPIClient(cfg)
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"request_id": "req-1",
		"code":       "OK",
		"data":       json.RawMessage(raw),
	})
}

func TestCallAPIDecodesEnvelope(t *testing.T) {
	var gotAuth, gotRequestId, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestId = r.Header.Get("X-Request-Id")
		gotUserAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/api/v1/instance", r.URL.Path)
		writeEnvelope(w, Instance{InstanceId: "inst-1", Region: "eu-central-1"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	response, err := client.InstanceApi.GetInstance()
	assert.NoError(t, err)
	assert.Equal(t, "inst-1", response.Instance.InstanceId)
	assert.Equal(t, "ApiKey test-key", gotAuth)
	assert.True(t, gotRequestId != "")
	assert.Equal(t, "Streamhouse-FeatureStore/1.0.0/go", gotUserAgent)
}

func TestCallAPIReturnsRestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"request_id": "req-2",
			"code":       "NOT_FOUND",
			"message":    "feature group not found",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FeatureGroupApi.GetFeatureGroupById(1, 99)
	assert.Error(t, err)

	var restErr *RestError
	assert.True(t, errors.As(err, &restErr))
	assert.Equal(t, http.StatusNotFound, restErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", restErr.Code)
	assert.Equal(t, "req-2", restErr.RequestId)
	assert.True(t, strings.Contains(restErr.Error(), "feature group not found"))
}

func TestCallAPIRetriesServerErrorsOnGet(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeEnvelope(w, Instance{InstanceId: "inst-1"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	response, err := client.InstanceApi.GetInstance()
	assert.NoError(t, err)
	assert.Equal(t, "inst-1", response.Instance.InstanceId)
	assert.True(t, atomic.LoadInt32(&calls) >= 3)
}

func TestCallAPIDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": "INVALID", "message": "bad input"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.InstanceApi.GetInstance()
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreateFeatureGroupRequiresStoreId(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.FeatureGroupApi.CreateFeatureGroup(&FeatureGroup{Name: "fg"})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "feature_store_id"))
}

func TestUpdateFeatureGroupRequiresGroupId(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.FeatureGroupApi.UpdateFeatureGroup(1, &FeatureGroup{Name: "fg"})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "feature_group_id"))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&RestError{StatusCode: 502}))
	assert.False(t, retryable(&RestError{StatusCode: 404}))
	assert.False(t, retryable(errors.New("plain")))
}
