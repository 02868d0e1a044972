package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/resi/internal/config"
	"github.com/example/resi/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file and create the store",
		Long: `Write .resi/config.yaml (in --config-dir, or your home directory) and
create the configured store so the first shipment can be recorded.

The file is written from defaults and flags only. An existing config is
never read, so --force can replace one that no longer loads.`,
		// Skip bootstrap: it would load the config being replaced.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _ := cmd.Flags().GetString("backend")
			force, _ := cmd.Flags().GetBool("force")
			configDir, _ := cmd.Root().PersistentFlags().GetString("config-dir")

			if configDir == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to get home directory: %w", err)
				}
				configDir = home
			}

			path := config.ConfigPath(configDir)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s\nHint: use --force to overwrite", path)
			}

			cfg, err := config.Default()
			if err != nil {
				return err
			}
			if operator, _ := cmd.Root().PersistentFlags().GetString("operator"); operator != "" {
				cfg.Operator = operator
			}
			if backend != "" {
				cfg.Backend = backend
			}
			if cfg.Backend != config.BackendSQLite && cfg.Backend != config.BackendFile {
				return fmt.Errorf("unknown backend %q (expected %q or %q)", cfg.Backend, config.BackendSQLite, config.BackendFile)
			}

			if err := config.SaveConfig(configDir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written to %s\n", path)

			// The store goes where later commands will look, env overrides included.
			cfg, err = config.LoadConfig(configDir)
			if err != nil {
				return err
			}
			_, closer, err := wire.NewBlobStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to create store: %w", err)
			}
			if err := closer(); err != nil {
				return err
			}
			switch cfg.Backend {
			case config.BackendSQLite:
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Database ready at %s\n", cfg.DBPath)
			case config.BackendFile:
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Blob directory ready at %s\n", cfg.BlobDir)
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			fmt.Fprintln(cmd.OutOrStdout(), `  resi create --to "Mitra10 Bintaro" --recipient "Ahmad Supardi"`)
			return nil
		},
	}

	cmd.Flags().String("backend", "", "Storage backend: sqlite or file")
	cmd.Flags().Bool("force", false, "Overwrite an existing config")
	return cmd
}
