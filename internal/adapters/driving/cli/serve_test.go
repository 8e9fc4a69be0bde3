package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServeTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "serve"}
	addServeFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestServeSettings_Defaults(t *testing.T) {
	setupTestServices(t)

	server, watch, err := serveSettings(newServeTestCmd(t))

	require.NoError(t, err)
	assert.Equal(t, ":8000", server.Addr)
	assert.InDelta(t, 50.0, server.RateLimit, 0)
	assert.Equal(t, 100, server.Burst)
	assert.Empty(t, watch)
}

func TestServeSettings_FromConfig(t *testing.T) {
	setupTestServices(t, map[string]any{
		"server.addr":       "127.0.0.1:9000",
		"server.rate_limit": 5.0,
		"server.burst":      10,
		"watch.dir":         "/contracts",
	})

	server, watch, err := serveSettings(newServeTestCmd(t))

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", server.Addr)
	assert.InDelta(t, 5.0, server.RateLimit, 0)
	assert.Equal(t, 10, server.Burst)
	assert.Equal(t, "/contracts", watch)
}

func TestServeSettings_FlagsOverrideConfig(t *testing.T) {
	setupTestServices(t, map[string]any{
		"server.addr":       "127.0.0.1:9000",
		"server.rate_limit": 5.0,
		"watch.dir":         "/contracts",
	})

	server, watch, err := serveSettings(newServeTestCmd(t,
		"--addr", ":7000", "--rate-limit", "0", "--watch", "/elsewhere"))

	require.NoError(t, err)
	assert.Equal(t, ":7000", server.Addr)
	assert.Zero(t, server.RateLimit)
	assert.Equal(t, 100, server.Burst)
	assert.Equal(t, "/elsewhere", watch)
}

func TestServeSettings_NoSettingsService(t *testing.T) {
	svc := setupTestServices(t)
	svc.Settings = nil

	server, _, err := serveSettings(newServeTestCmd(t, "--burst", "3"))

	require.NoError(t, err)
	assert.Equal(t, ":8000", server.Addr)
	assert.Equal(t, 3, server.Burst)
}

func TestServeCmd_InvalidAddr(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, nil, "serve", "--addr", "127.0.0.1:-1")

	assert.Error(t, err)
}

func TestServeCmd_MissingWatchDirStopsServer(t *testing.T) {
	setupTestServices(t)
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := run(t, nil, "serve", "--addr", "127.0.0.1:0", "--watch", missing)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
