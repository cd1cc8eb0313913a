package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd(t *testing.T) {
	assert.Equal(t, "serve", mcpServeCmd.Use)
	assert.Contains(t, mcpServeCmd.Long, "lookup_record")

	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "0", port.DefValue)
}

func TestMCPServeCmd_RequiresIndex(t *testing.T) {
	withServices(t, &Services{})

	_, err := executeCommand(t, "mcp", "serve")

	assert.Error(t, err)
}
