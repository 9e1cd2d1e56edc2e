package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/omniorder/omniorder/internal/dashboard"
	"github.com/omniorder/omniorder/internal/datastore"
)

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func table(w io.Writer, header string, rows func(tw io.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func printDealers(w io.Writer, snap datastore.Snapshot, search string, asJSON bool) error {
	items := dashboard.SearchDealers(snap.Dealers, search)
	if asJSON {
		return writeJSON(w, items)
	}
	return table(w, "ID\tCODE\tNAME\tCITY\tSTATUS", func(tw io.Writer) {
		for _, d := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.DealerCode, d.Name, d.City, d.Status)
		}
	})
}

func printClients(w io.Writer, snap datastore.Snapshot, search string, asJSON bool) error {
	items := dashboard.SearchClients(snap.Clients, search)
	if asJSON {
		return writeJSON(w, items)
	}
	return table(w, "ID\tCODE\tNAME\tDEALER\tCITY", func(tw io.Writer) {
		for _, c := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.ClientCode, c.Name, dashboard.DealerName(snap, c.DealerID), c.City)
		}
	})
}

func printProducts(w io.Writer, snap datastore.Snapshot, search string, asJSON bool) error {
	items := dashboard.SearchProducts(snap.Products, search)
	if asJSON {
		return writeJSON(w, items)
	}
	return table(w, "ID\tCODE\tNAME\tCATEGORY\tBASE PRICE", func(tw io.Writer) {
		for _, p := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.ProductCode, p.Name, p.Category, dashboard.FormatRupees(p.BasePrice))
		}
	})
}

func printOrders(w io.Writer, snap datastore.Snapshot, search string, asJSON bool) error {
	snap.Orders = dashboard.SearchOrders(snap.Orders, search)
	if asJSON {
		return writeJSON(w, snap.Orders)
	}
	return table(w, "NUMBER\tDATE\tCLIENT\tDEALER\tAMOUNT\tSTATUS\tPAYMENT", func(tw io.Writer) {
		for _, row := range dashboard.OrderRows(snap) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.OrderNumber, row.OrderDate, row.ClientName, row.DealerName,
				dashboard.FormatRupees(row.FinalAmount), row.OrderStatus, row.PaymentStatus)
		}
	})
}
