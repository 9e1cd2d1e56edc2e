// Package cli provides the Cobra-based operator CLI for omniorderctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/omniorder/omniorder/internal/app"
	"github.com/omniorder/omniorder/internal/dashboard"
	"github.com/omniorder/omniorder/internal/datastore"
	"github.com/omniorder/omniorder/internal/records"
)

// Opener assembles the services a command runs against.
type Opener func(ctx context.Context) (*app.Services, error)

type runner struct {
	open Opener
	svc  *app.Services
}

func (r *runner) store() *datastore.Store { return r.svc.Store }

// NewRootCommand builds the command tree. Each invocation opens the
// services and performs the initial load before the subcommand runs.
func NewRootCommand(open Opener) *cobra.Command {
	r := &runner{open: open}
	root := &cobra.Command{
		Use:           "omniorderctl",
		Short:         "Operate the OmniOrder data store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			svc, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			r.svc = svc
			if err := svc.Store.RefreshAll(cmd.Context()); err != nil {
				return errors.Join(err, r.close())
			}
			return nil
		},
	}

	root.AddCommand(
		listGroup(r, "dealers", printDealers),
		listGroup(r, "clients", printClients),
		listGroup(r, "products", printProducts),
		ordersCommand(r),
		statsCommand(r),
		resetCommand(r),
	)
	closeAfterRun(r, root)
	return root
}

func (r *runner) close() error {
	if r.svc == nil {
		return nil
	}
	err := r.svc.Close()
	r.svc = nil
	return err
}

// closeAfterRun wraps every runnable command so the services are released
// whether or not the command fails. Cobra skips post-run hooks on error.
func closeAfterRun(r *runner, cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		closeAfterRun(r, sub)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return errors.Join(run(cmd, args), r.close())
	}
}

type listPrinter func(w io.Writer, snap datastore.Snapshot, search string, asJSON bool) error

func listGroup(r *runner, name string, printer listPrinter) *cobra.Command {
	group := &cobra.Command{Use: name, Short: "Work with " + name}
	group.AddCommand(listCommand(r, printer))
	return group
}

func listCommand(r *runner, printer listPrinter) *cobra.Command {
	var search, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered by --search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printer(cmd.OutOrStdout(), r.store().Snapshot(), search, output == "json")
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name or code filter")
	cmd.Flags().StringVar(&output, "output", "", "output format: table|json")
	return cmd
}

func ordersCommand(r *runner) *cobra.Command {
	group := &cobra.Command{Use: "orders", Short: "Work with orders"}
	group.AddCommand(listCommand(r, printOrders))
	group.AddCommand(&cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the fulfilment status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := r.store().SetOrderStatus(cmd.Context(), args[0], records.OrderStatus(args[1]))
			if err != nil {
				return err
			}
			slog.Info("order status changed", slog.String("order_id", order.ID), slog.String("status", string(order.OrderStatus)))
			return writeJSON(cmd.OutOrStdout(), order)
		},
	})
	group.AddCommand(&cobra.Command{
		Use:   "payment <id> <status>",
		Short: "Change the payment status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := r.store().SetPaymentStatus(cmd.Context(), args[0], records.PaymentStatus(args[1]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), order)
		},
	})
	return group
}

func statsCommand(r *runner) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := dashboard.Summarize(r.store().Snapshot())
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Total Revenue\t%s\n", dashboard.FormatRupees(s.TotalRevenue))
			fmt.Fprintf(w, "Total Orders\t%d\n", s.TotalOrders)
			fmt.Fprintf(w, "Active Dealers\t%d\n", s.ActiveDealers)
			fmt.Fprintf(w, "Avg Order Value\t%s\n", dashboard.FormatRupees(s.AverageOrderValue))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output format: table|json")
	return cmd
}

func resetCommand(r *runner) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore every collection to its seed data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("reset discards all stored records; pass --force to continue")
			}
			if err := r.svc.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "skip the safety check")
	return cmd
}

// Execute runs omniorderctl with configuration from the environment.
func Execute() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLoggerTo(os.Stderr, cfg)
	slog.SetDefault(logger)

	root := NewRootCommand(func(ctx context.Context) (*app.Services, error) {
		return app.BuildServices(ctx, cfg, logger)
	})
	return root.ExecuteContext(context.Background())
}
