package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/example/resi/internal/adapters/cli"
	"github.com/example/resi/internal/wire"
)

// adapterFor returns a ShipmentAdapter writing to the command's output.
func adapterFor(cmd *cobra.Command) (*cliadapter.ShipmentAdapter, error) {
	return wire.ShipmentAdapterWithOutput(cmd.OutOrStdout())
}

// CreateCmd returns the create command
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new shipment",
		Long:  "Open a new Pending shipment to a store and print its tracking number.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetString("to")
			recipient, _ := cmd.Flags().GetString("recipient")

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Create(NewContext(), to, recipient)
		},
	}
	cmd.Flags().String("to", "", "Destination store (tujuan toko)")
	cmd.Flags().String("recipient", "", "Recipient name (tanda terima)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}

// ItemCmd returns the item command group
func ItemCmd() *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Pack or unpack items",
	}

	addCmd := &cobra.Command{
		Use:   "add <shipment-id|tracking> <name>",
		Short: "Pack an item into a shipment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, _ := cmd.Flags().GetInt("qty")
			if err := validateShipmentRef(args[0]); err != nil {
				return err
			}

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.AddItem(NewContext(), args[0], args[1], qty)
		},
	}
	addCmd.Flags().Int("qty", 1, "Quantity (jumlah); values below 1 count as 1")

	removeCmd := &cobra.Command{
		Use:   "remove <shipment-id|tracking> <item-id>",
		Short: "Take an item out of a shipment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateShipmentRef(args[0]); err != nil {
				return err
			}

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.RemoveItem(NewContext(), args[0], args[1])
		},
	}

	itemCmd.AddCommand(addCmd)
	itemCmd.AddCommand(removeCmd)
	return itemCmd
}

// DispatchCmd returns the dispatch command
func DispatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <shipment-id|tracking>",
		Short: "Mark a packed shipment as sent (Dikirim)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateShipmentRef(args[0]); err != nil {
				return err
			}

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Dispatch(NewContext(), args[0])
		},
	}
}

// CompleteCmd returns the complete command
func CompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <shipment-id|tracking>",
		Short: "Mark a dispatched shipment as received (Selesai)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateShipmentRef(args[0]); err != nil {
				return err
			}

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Complete(NewContext(), args[0])
		},
	}
}

// StatusCmd returns the status command group
func StatusCmd() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Change shipment status directly",
	}

	setCmd := &cobra.Command{
		Use:       "set <shipment-id|tracking> <Pending|Packing|Dikirim|Selesai>",
		Short:     "Move a shipment to a status, subject to lifecycle rules",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"Pending", "Packing", "Dikirim", "Selesai"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateShipmentRef(args[0]); err != nil {
				return err
			}

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.SetStatus(NewContext(), args[0], args[1])
		},
	}

	statusCmd.AddCommand(setCmd)
	return statusCmd
}

// DeleteCmd returns the delete command
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <shipment-id|tracking>",
		Short: "Delete a shipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateShipmentRef(args[0]); err != nil {
				return err
			}

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Delete(NewContext(), args[0])
		},
	}
}

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shipments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			open, _ := cmd.Flags().GetBool("open")

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.List(NewContext(), status, open)
		},
	}
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	cmd.Flags().Bool("open", false, "Only shipments not yet dispatched")
	return cmd
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <shipment-id|tracking>",
		Short: "Show shipment details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateShipmentRef(args[0]); err != nil {
				return err
			}

			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			_, err = adapter.Show(NewContext(), args[0])
			return err
		},
	}
}

// TrackCmd returns the track command
func TrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <tracking-number>",
		Short: "Look a shipment up by tracking number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Track(NewContext(), args[0])
		},
	}
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count shipments per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Stats(NewContext())
		},
	}
}
