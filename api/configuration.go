package api

import (
	"fmt"
	"time"
)

type Configuration struct {
	regionId       string
	ApiKey         string
	ProjectName    string
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetryTime   time.Duration
	domain         string
}

func NewConfiguration(regionId, apiKey, projectName string) *Configuration {
	cfg := &Configuration{
		UserAgent:      "Streamhouse-FeatureStore/1.0.0/go",
		regionId:       regionId,
		ProjectName:    projectName,
		ApiKey:         apiKey,
		RequestTimeout: 10 * time.Second,
		MaxRetryTime:   30 * time.Second,
	}
	return cfg
}

func (c *Configuration) SetDomain(domain string) {
	c.domain = domain
}

func (c *Configuration) GetDomain() string {
	if c.domain == "" {
		c.domain = fmt.Sprintf("featurestore-vpc.%s.streamhouse.io", c.regionId)
	}

	return c.domain
}
