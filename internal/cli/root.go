package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/resi/internal/version"
)

// Execute runs root and then calls release, whether or not the command
// failed. Cobra skips post-run hooks after an error, so release lives here.
// A command error takes precedence over a release error.
func Execute(root *cobra.Command, release func() error) error {
	err := root.Execute()
	if rerr := release(); err == nil {
		err = rerr
	}
	return err
}

// RootCmd returns the resi command tree.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "resi",
		Short:   "resi - shipment tracking for the distribution center",
		Version: version.String(),
		Long: `resi records shipments (pengiriman) from the distribution center to stores.
Each shipment gets a tracking number (no resi), collects packed items, and
moves through Pending → Packing → Dikirim → Selesai.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap(cmd)
		},
	}

	rootCmd.PersistentFlags().String("operator", "", "Operator (petugas) recorded with each change")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging, also written to stderr")
	rootCmd.PersistentFlags().String("config-dir", "", "Directory containing .resi/config.yaml (default: current directory)")

	rootCmd.AddCommand(InitCmd())

	// Shipment lifecycle
	rootCmd.AddCommand(CreateCmd())
	rootCmd.AddCommand(ItemCmd())
	rootCmd.AddCommand(DispatchCmd())
	rootCmd.AddCommand(CompleteCmd())
	rootCmd.AddCommand(StatusCmd())
	rootCmd.AddCommand(DeleteCmd())

	// Queries
	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(ShowCmd())
	rootCmd.AddCommand(TrackCmd())
	rootCmd.AddCommand(StatsCmd())

	return rootCmd
}
