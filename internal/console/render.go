package console

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"trader-admin-console/internal/roster"
	"trader-admin-console/internal/types"
)

// Timestamps are shown in IST, the desk's local timezone; the API stores
// everything in UTC.
var ist = time.FixedZone("IST", 19800)

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(ist).Format("2006-01-02 15:04:05")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatPaid(paid bool) string {
	if paid {
		return "yes"
	}
	return "no"
}

func (c *Console) renderTrades() {
	all := c.trades.Trades()
	if len(all) == 0 {
		fmt.Fprintln(c.out, "No trades found.")
	} else {
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CLIENT\tORDER ID\tSYMBOL\tTXN\tQTY\tENTRY\tEXIT\tPNL\tTREND\tSTATUS\tCREATED\tEXIT TIME")
		for _, t := range all {
			pnlCell := "-"
			if v, ok := c.trades.RowPnL(t); ok {
				pnlCell = strconv.FormatFloat(v, 'f', 2, 64)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				orDash(t.ClientName),
				orDash(t.OrderID),
				t.Symbol,
				orDash(t.TransactionType),
				t.Quantity,
				formatPrice(t.EntryPrice),
				formatPrice(t.ExitPrice),
				pnlCell,
				orDash(t.Trend),
				orDash(t.Status),
				formatTime(t.CreatedAt),
				formatTimePtr(t.ExitTime),
			)
		}
		w.Flush()
	}

	f := c.trades.Filters()
	var active []string
	if f.Start != "" || f.End != "" {
		active = append(active, fmt.Sprintf("dates %s..%s", orDash(f.Start), orDash(f.End)))
	}
	if f.ClientName != "" {
		active = append(active, "client "+f.ClientName)
	}
	if f.Symbol != "" {
		active = append(active, "symbol "+f.Symbol)
	}
	if len(active) > 0 {
		fmt.Fprintf(c.out, "Filters: %s\n", strings.Join(active, ", "))
	}
	fmt.Fprintf(c.out, "Page %d of %d | Page PnL: %.2f\n",
		c.trades.Page(), c.trades.TotalPages(), c.trades.TotalPnL())
}

func (c *Console) renderClients() {
	clients := c.roster.Clients()
	if len(clients) == 0 {
		fmt.Fprintln(c.out, "No clients found.")
	} else {
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NO.\tNAME\tEMAIL\tPHONE\tPAID\tBROKER\tTRADES\tLAST LOGIN")
		offset := (c.roster.Page() - 1) * c.roster.Limit()
		for i, cl := range clients {
			name := cl.ClientName
			if name == "" {
				name = "N/A"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				offset+i+1,
				name,
				orDash(cl.Email),
				orDash(cl.MobileNumber),
				formatPaid(cl.IsPaid),
				orDash(cl.Broker),
				orDash(strings.Join(cl.Trade, ", ")),
				formatTimePtr(cl.LastLogin),
			)
		}
		w.Flush()
	}
	fmt.Fprintf(c.out, "Page %d of %d\n", c.roster.Page(), c.roster.TotalPages())
}

func (c *Console) renderDraft(d *roster.Draft) {
	fmt.Fprintf(c.out, "Editing client %s\n", d.ClientID)
	for _, tag := range types.InstrumentTags {
		mark := " "
		if d.Has(tag) {
			mark = "x"
		}
		fmt.Fprintf(c.out, "  [%s] %s\n", mark, tag)
	}
	broker := d.Broker
	if broker == "" {
		broker = "(none)"
	}
	fmt.Fprintf(c.out, "  broker: %s  (choices: %s)\n", broker, strings.Join(types.Brokers, ", "))
	fmt.Fprintln(c.out, "Use 'tag <instrument>', 'broker <name>', then 'save' or 'cancel'.")
}
