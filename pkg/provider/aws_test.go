package provider

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClients(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	var gotRegion string
	original := newClients
	newClients = func(cfg aws.Config) *Clients {
		gotRegion = cfg.Region
		return original(cfg)
	}
	t.Cleanup(func() { newClients = original })

	clients, err := NewClients(context.Background(), "eu-west-1", "")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", gotRegion)
	assert.NotNil(t, clients.Logs)
	assert.NotNil(t, clients.Functions)
	assert.NotNil(t, clients.Stacks)
}

func TestNewClientsUnknownProfile(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	_, err := NewClients(context.Background(), "eu-west-1", "does-not-exist")
	assert.Error(t, err)
}
