// Package wire provides dependency injection for the resi application.
// It creates singleton services with lazy initialization.
package wire

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/resi/internal/adapters/cli"
	"github.com/example/resi/internal/adapters/filesystem"
	"github.com/example/resi/internal/adapters/persistence"
	"github.com/example/resi/internal/adapters/sqlite"
	"github.com/example/resi/internal/app"
	"github.com/example/resi/internal/config"
	"github.com/example/resi/internal/db"
	"github.com/example/resi/internal/ports/primary"
	"github.com/example/resi/internal/ports/secondary"
)

var (
	cfg             *config.Config
	verbose         bool
	logger          *zap.Logger
	shipmentService primary.ShipmentService
	closeStore      func() error
	initErr         error
	once            sync.Once
)

// Configure sets the configuration used on first service access.
// Calls after the services are built have no effect.
func Configure(c *config.Config, verboseLogging bool) {
	cfg = c
	verbose = verboseLogging
}

// ShipmentService returns the singleton ShipmentService instance.
func ShipmentService() (primary.ShipmentService, error) {
	once.Do(initServices)
	return shipmentService, initErr
}

// Logger returns the application logger, or a no-op logger before initialization.
func Logger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// ShipmentAdapter returns a new ShipmentAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ShipmentAdapter() (*cliadapter.ShipmentAdapter, error) {
	return ShipmentAdapterWithOutput(os.Stdout)
}

// ShipmentAdapterWithOutput returns a new ShipmentAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ShipmentAdapterWithOutput(out io.Writer) (*cliadapter.ShipmentAdapter, error) {
	svc, err := ShipmentService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewShipmentAdapter(svc, out), nil
}

// Close flushes the logger and releases the store.
func Close() error {
	var err error
	if closeStore != nil {
		err = closeStore()
		closeStore = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if cfg == nil {
		c, err := config.LoadConfig("")
		if err != nil {
			initErr = err
			return
		}
		cfg = c
	}

	l, err := NewLogger(cfg, verbose)
	if err != nil {
		initErr = err
		return
	}
	logger = l

	store, closer, err := NewBlobStore(cfg)
	if err != nil {
		initErr = err
		return
	}
	closeStore = closer

	repo := persistence.NewBlobShipmentRepository(store, cfg.Key)
	shipmentService = app.NewShipmentService(repo, logger)

	logger.Debug("services initialized",
		zap.String("backend", cfg.Backend),
		zap.String("key", cfg.Key))
}

// NewBlobStore opens the blob store selected by cfg.Backend.
// The returned func releases it.
func NewBlobStore(c *config.Config) (secondary.BlobStore, func() error, error) {
	switch c.Backend {
	case config.BackendFile:
		store, err := filesystem.NewBlobStore(c.BlobDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	case config.BackendSQLite, "":
		database, err := db.Open(c.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return sqlite.NewBlobStore(database), database.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// NewLogger builds the production logger described by c. Verbose output
// lowers the level to debug and also writes to stderr. The operator is not
// attached here; each event carries the resolved actor instead.
func NewLogger(c *config.Config, verboseLogging bool) (*zap.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	atomic := zap.NewAtomicLevelAt(level)
	if verboseLogging {
		atomic.SetLevel(zap.DebugLevel)
	}

	outputs := []string{"stderr"}
	if c.LogFile != "" && c.LogFile != "-" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		outputs = []string{c.LogFile}
		if verboseLogging {
			outputs = append(outputs, "stderr")
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = atomic
	zc.Sampling = nil
	zc.OutputPaths = outputs
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
