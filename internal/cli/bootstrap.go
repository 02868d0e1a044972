// Package cli provides CLI commands for the resi application.
package cli

import (
	gocontext "context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/resi/internal/config"
	"github.com/example/resi/internal/ctxutil"
	"github.com/example/resi/internal/wire"
)

// globalActorID stores the operator for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor picks the operator: --operator, then the configured
// operator, then $USER.
func DetectAndStoreActor(flagValue string, cfg *config.Config) {
	switch {
	case flagValue != "":
		globalActorID = flagValue
	case cfg != nil && cfg.Operator != "":
		globalActorID = cfg.Operator
	default:
		globalActorID = os.Getenv("USER")
	}
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// bootstrap resolves configuration and hands it to wire. Runs before every command.
func bootstrap(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	configDir, _ := flags.GetString("config-dir")
	operator, _ := flags.GetString("operator")
	verbose, _ := flags.GetBool("verbose")

	if configDir == "" {
		cwd, err := os.Getwd()
		if err == nil {
			configDir = cwd
		}
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}

	wire.Configure(cfg, verbose)
	DetectAndStoreActor(operator, cfg)
	return nil
}
