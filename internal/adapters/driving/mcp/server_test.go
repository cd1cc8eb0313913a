package mcp

import (
	"context"
	"encoding/json"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil index service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIndexService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Index: &mockIndexService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil index service returns error", func(t *testing.T) {
		ports := &Ports{Sync: &mockSyncOrchestrator{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingIndexService)
	})

	t.Run("index only is valid", func(t *testing.T) {
		ports := &Ports{Index: &mockIndexService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Index: &mockIndexService{},
			Sync:  &mockSyncOrchestrator{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_OverInMemoryTransport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := NewServer(&Ports{Index: &mockIndexService{entries: sampleEntries()}})
	require.NoError(t, err)

	serverTransport, clientTransport := gomcp.NewInMemoryTransports()
	go func() {
		_ = server.server.Run(ctx, serverTransport)
	}()

	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      "find_records",
		Arguments: map[string]any{"company": "Acme_Inc", "tag": "vip"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out FindOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "102", out.Records[0].ID)

	res, err := session.ReadResource(ctx, &gomcp.ReadResourceParams{URI: "hsarchive://index"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, `"id": "103"`)
}
