package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/catalog"
	kafkax "github.com/ariefcatur/go-party-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
	"github.com/ariefcatur/go-party-rentals.git/internal/orders"
)

type app struct {
	open    func(ctx context.Context) (kv.Store, func(), error)
	brokers []string
	service string
	log     *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "rentalctl",
		Short:         "Back-office tools for the party rental shop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(catalogCmd(), ordersCmd(a))
	return root
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Browse the product catalog"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			c := catalog.Category(category)
			if c != catalog.CategoryAll && !c.Valid() {
				return fmt.Errorf("unknown category %q (want one of %v or all)", category, catalog.Categories())
			}
			products := catalog.Default().ListByCategory(c)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), products)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tDAILY\tSTOCK")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.DailyPrice.StringFixed(2), p.Stock)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringP("category", "c", string(catalog.CategoryAll), "Category filter")
	list.Flags().BoolP("json", "j", false, "Output as JSON")

	cmd.AddCommand(list)
	return cmd
}

func ordersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Inspect and manage rental orders"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders in the order they were placed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("status")
			status, err := orders.ParseFilter(raw)
			if err != nil {
				return err
			}
			return a.withLedger(cmd.Context(), func(l *orders.Ledger) error {
				found := l.List(status)
				if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
					return printJSON(cmd.OutOrStdout(), found)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tCUSTOMER\tFROM\tTO\tTOTAL\tSTATUS")
				for _, o := range found {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
						o.ID, o.ProductName, o.Quantity, o.CustomerName,
						o.StartDate, o.EndDate, o.TotalPrice.StringFixed(2), o.Status)
				}
				return tw.Flush()
			})
		},
	}
	list.Flags().StringP("status", "s", "all", "Status filter (pending, confirmed, completed, cancelled, all)")
	list.Flags().BoolP("json", "j", false, "Output as JSON")

	show := &cobra.Command{
		Use:   "show [order-id]",
		Short: "Show one order and the statuses it can move to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(l *orders.Ledger) error {
				o, err := l.Get(args[0])
				if err != nil {
					return err
				}
				return printOrder(cmd.OutOrStdout(), o)
			})
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Order counts per status and completed revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(l *orders.Ledger) error {
				s := orders.ComputeStats(l.List(""))
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Total:     %d\n", s.Total)
				for _, st := range orders.Statuses {
					fmt.Fprintf(w, "%-10s %d\n", string(st)+":", s.CountByStatus[st])
				}
				fmt.Fprintf(w, "Revenue:   %s\n", s.Revenue.StringFixed(2))
				return nil
			})
		},
	}

	setStatus := &cobra.Command{
		Use:   "set-status [order-id] [status]",
		Short: "Move an order to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := orders.Status(strings.ToLower(args[1]))
			return a.withLedger(cmd.Context(), func(l *orders.Ledger) error {
				before, after, err := l.SetStatus(cmd.Context(), args[0], to)
				if err != nil {
					return err
				}
				a.publishStatus(before, after)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", after.ID, before.Status, after.Status)
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, stats, setStatus)
	return cmd
}

func (a *app) withLedger(ctx context.Context, fn func(*orders.Ledger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	l, err := orders.Open(ctx, kv.Scoped(store, kv.ShopScope), a.log)
	if err != nil {
		return err
	}
	return fn(l)
}

// publishStatus sends the change to the notifier when brokers are set.
func (a *app) publishStatus(before, after orders.Order) {
	if len(a.brokers) == 0 {
		return
	}
	env, err := orders.NewEnvelope(orders.EventOrderStatusChanged, a.service, "", after.ID,
		orders.OrderStatusChangedPayload{OrderID: after.ID, From: before.Status, To: after.Status})
	if err != nil {
		a.log.Warn("build status event", zap.Error(err))
		return
	}
	p := kafkax.NewProducer(a.brokers, orders.TopicOrderStatus, 1, a.log)
	p.Start(context.Background())
	p.Publish(orders.PartitionKey(after.ID), kafkax.MustMarshal(env), kafkax.EventHeaders(env.EventType, env.EventVersion)...)
	p.Close()
	p.WaitClosed()
}

func printOrder(w io.Writer, o orders.Order) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(k, v string) { fmt.Fprintf(tw, "%s\t%s\n", k, v) }
	row("ID", o.ID)
	row("Product", fmt.Sprintf("%s (%s)", o.ProductName, o.ProductID))
	if o.Size != "" || o.Color != "" {
		row("Option", strings.TrimSpace(o.Size+" "+o.Color))
	}
	row("Quantity", fmt.Sprint(o.Quantity))
	row("Period", fmt.Sprintf("%s to %s", o.StartDate, o.EndDate))
	row("Total", o.TotalPrice.StringFixed(2))
	row("Customer", fmt.Sprintf("%s <%s> %s", o.CustomerName, o.CustomerEmail, o.CustomerPhone))
	row("Payment", string(o.PaymentMethod))
	row("Delivery", string(o.DeliveryMethod))
	if o.DeliveryAddress != "" {
		row("Address", o.DeliveryAddress)
	}
	row("Status", string(o.Status))
	row("Created", o.CreatedAt.Format("2006-01-02 15:04"))
	if o.Status.Terminal() {
		row("Next", "(final)")
	} else {
		next := orders.AllowedNext(o.Status)
		parts := make([]string, len(next))
		for i, s := range next {
			parts[i] = string(s)
		}
		row("Next", strings.Join(parts, ", "))
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
