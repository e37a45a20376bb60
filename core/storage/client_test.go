package storage_test

import (
	"testing"

	"catalog-sync/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{
			name: "PlainEndpoint",
			cfg:  storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "catalog-sync"},
		},
		{
			name: "EndpointWithHTTP",
			cfg:  storage.Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"},
		},
		{
			name: "EndpointWithHTTPS",
			cfg:  storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "k", SecretKey: "s", UseSSL: true, Region: "us-east-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	client, err := storage.NewClient(storage.Config{Endpoint: ""})
	assert.Error(t, err)
	assert.Nil(t, client)
}
