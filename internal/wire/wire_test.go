package wire

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/resi/internal/adapters/persistence"
	"github.com/example/resi/internal/app"
	"github.com/example/resi/internal/config"
	"github.com/example/resi/internal/ports/primary"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Backend:  backend,
		DBPath:   filepath.Join(dir, "resi.db"),
		BlobDir:  filepath.Join(dir, "blobs"),
		Key:      config.DefaultKey,
		LogLevel: "info",
		LogFile:  filepath.Join(dir, "logs", "resi.log"),
		Operator: "petugas-01",
	}
}

func TestNewBlobStore_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			c := testConfig(t, backend)

			store, closer, err := NewBlobStore(c)
			require.NoError(t, err)
			defer closer()

			svc := app.NewShipmentService(persistence.NewBlobShipmentRepository(store, c.Key), nil)
			sh, err := svc.CreateShipment(ctx, primary.CreateShipmentRequest{
				DestinationStore: "Mitra10 Bintaro",
				RecipientName:    "Ahmad Supardi",
			})
			require.NoError(t, err)

			blob, err := store.Get(ctx, c.Key)
			require.NoError(t, err)
			assert.Contains(t, string(blob.Data), sh.TrackingNumber)
		})
	}

	_, _, err := NewBlobStore(&config.Config{Backend: "redis"})
	assert.Error(t, err)
}

func TestNewLogger_WritesToFile(t *testing.T) {
	c := testConfig(t, config.BackendFile)

	logger, err := NewLogger(c, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(c.LogFile)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, `"operator"`, "only events carry the actor")
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestNewLogger_Verbose(t *testing.T) {
	c := testConfig(t, config.BackendFile)
	c.LogFile = filepath.Join(t.TempDir(), "resi.log")

	logger, err := NewLogger(c, true)
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zap.DebugLevel), "debug should be enabled")
}

func TestNewLogger_BadLevel(t *testing.T) {
	c := testConfig(t, config.BackendFile)
	c.LogLevel = "loud"

	_, err := NewLogger(c, false)
	assert.Error(t, err)
}
