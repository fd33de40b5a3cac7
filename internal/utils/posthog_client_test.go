package utils_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/afrimoni/remit_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializePosthogClientWithoutKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := utils.InitializePosthogClient("", logger)
	require.NotNil(t, client, "Wrapper should be returned even without an API key")
	assert.False(t, client.IsInitialized(), "Wrapper should be inert without an API key")

	// Inert wrapper methods must be safe no-ops
	client.Enqueue("user-123", "api_v1_transfers", map[string]any{"status_code": 200})
	client.Close()
}
