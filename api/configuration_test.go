package api

import (
	"testing"

	"fortio.org/assert"
)

func TestConfigurationDefaultDomain(t *testing.T) {
	cfg := NewConfiguration("eu-central-1", "key", "proj")
	assert.Equal(t, "featurestore-vpc.eu-central-1.streamhouse.io", cfg.GetDomain())
}

func TestConfigurationCustomDomain(t *testing.T) {
	cfg := NewConfiguration("eu-central-1", "key", "proj")
	cfg.SetDomain("featurestore.example.com")
	assert.Equal(t, "featurestore.example.com", cfg.GetDomain())
}

func TestStreamServerURL(t *testing.T) {
	testcases := []struct {
		name    string
		address string
		expect  string
	}{
		{"empty", "", ""},
		{"single host", "broker-1:4222", "nats://broker-1:4222"},
		{"host list", "broker-1:4222, broker-2:4222", "nats://broker-1:4222,nats://broker-2:4222"},
		{"scheme kept", "tls://broker-1:4222", "tls://broker-1:4222"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			d := &Datasource{VpcAddress: tc.address}
			assert.Equal(t, tc.expect, d.StreamServerURL())
		})
	}
}

func TestDatasourceAddressSelection(t *testing.T) {
	d := &Datasource{VpcAddress: "vpc:5432", PublicAddress: "public:5432"}
	assert.Equal(t, "vpc:5432", d.Address())

	d.TestMode = true
	assert.Equal(t, "public:5432", d.Address())

	d.PublicAddress = ""
	assert.Equal(t, "vpc:5432", d.Address())
}

func TestGenerateDSN(t *testing.T) {
	d := &Datasource{
		User:       "fs",
		Pwd:        "secret",
		VpcAddress: "db:5432",
		Database:   "features",
	}
	assert.Equal(t,
		"postgres://fs:secret@db:5432/features?sslmode=disable&connect_timeout=10",
		d.GenerateDSN("Postgres"))

	d.VpcAddress = "db:3306"
	assert.Equal(t, "fs:secret@tcp(db:3306)/features?timeout=10s", d.GenerateDSN("Mysql"))
}
