// Package console is the interactive surface of the admin panel: a line
// oriented command loop over the trade and client views. It owns no domain
// state of its own; every mutation goes through the view-model or the
// roster controller.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trader-admin-console/internal/adminapi"
	"trader-admin-console/internal/auditlog"
	"trader-admin-console/internal/interfaces"
	"trader-admin-console/internal/logger"
	"trader-admin-console/internal/roster"
	"trader-admin-console/internal/session"
	"trader-admin-console/internal/trades"
)

type view int

const (
	viewTrades view = iota
	viewClients
)

type Console struct {
	api    interfaces.AdminAPI
	gate   *session.Gate
	trades *trades.ViewModel
	roster *roster.Controller

	in  *bufio.Scanner
	out io.Writer

	current view
	email   string // audit actor, set on login
}

func New(api interfaces.AdminAPI, gate *session.Gate, tv *trades.ViewModel, rc *roster.Controller, in io.Reader, out io.Writer) *Console {
	return &Console{
		api:     api,
		gate:    gate,
		trades:  tv,
		roster:  rc,
		in:      bufio.NewScanner(in),
		out:     out,
		current: viewTrades,
	}
}

// Run drives the command loop until quit, EOF, or context cancellation.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Trader Admin Console. Type 'help' for commands.")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if c.gate.Authenticated() {
			fmt.Fprintf(c.out, "admin> ")
		} else {
			fmt.Fprintf(c.out, "login> ")
		}
		if !c.in.Scan() {
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := c.dispatch(ctx, cmd, args); err != nil {
			c.notify(ctx, err)
		}
	}
}

func (c *Console) dispatch(ctx context.Context, cmd string, args []string) error {
	if !c.gate.Authenticated() {
		switch cmd {
		case "login":
			return c.cmdLogin(ctx, args)
		case "help":
			c.printLoginHelp()
			return nil
		default:
			fmt.Fprintln(c.out, "Not logged in. Use: login <email> <password>")
			return nil
		}
	}

	switch cmd {
	case "help":
		c.printHelp()
		return nil
	case "login":
		fmt.Fprintln(c.out, "Already logged in. Use 'logout' first.")
		return nil
	case "logout":
		c.api.Logout(ctx)
		_ = auditlog.Append(auditlog.Entry{Action: "logout", Actor: c.email})
		fmt.Fprintln(c.out, "Logged out.")
		return nil
	case "trades":
		c.current = viewTrades
		if err := c.trades.Refresh(ctx); err != nil {
			return err
		}
		c.renderTrades()
		return nil
	case "filter":
		return c.cmdFilter(ctx, args)
	case "clients":
		c.current = viewClients
		if err := c.roster.Load(ctx, c.roster.Page()); err != nil {
			return err
		}
		c.renderClients()
		return nil
	case "next":
		return c.cmdNavigate(ctx, +1, 0)
	case "prev":
		return c.cmdNavigate(ctx, -1, 0)
	case "page":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "Usage: page <n>")
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(c.out, "Usage: page <n>")
			return nil
		}
		return c.cmdNavigate(ctx, 0, n)
	case "refresh":
		return c.cmdRefresh(ctx)
	case "paid":
		return c.cmdPaid(ctx, args)
	case "edit":
		return c.cmdEdit(args)
	case "tag":
		return c.cmdTag(args)
	case "broker":
		return c.cmdBroker(args)
	case "save":
		return c.cmdSave(ctx)
	case "delete":
		return c.cmdDelete(args)
	case "confirm":
		return c.cmdConfirm(ctx)
	case "cancel":
		return c.cmdCancel()
	case "token":
		return c.cmdToken(ctx, args)
	default:
		fmt.Fprintf(c.out, "Unknown command %q. Type 'help'.\n", cmd)
		return nil
	}
}

func (c *Console) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: login <email> <password>")
		return nil
	}
	if err := c.api.Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	c.email = args[0]
	_ = auditlog.Append(auditlog.Entry{Action: "login", Actor: c.email})
	fmt.Fprintln(c.out, "Login successful.")

	// First load mirrors the dashboard: today's trades, page 1.
	c.current = viewTrades
	if err := c.trades.Refresh(ctx); err != nil {
		return err
	}
	c.renderTrades()
	return nil
}

// cmdFilter parses key=value pairs; keys absent from the command line are
// cleared, so `filter` alone shows the unfiltered result set.
func (c *Console) cmdFilter(ctx context.Context, args []string) error {
	var f trades.Filters
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintf(c.out, "Bad filter %q; use key=value with keys start, end, client, symbol.\n", arg)
			return nil
		}
		switch key {
		case "start":
			f.Start = value
		case "end":
			f.End = value
		case "client":
			f.ClientName = value
		case "symbol":
			f.Symbol = value
		default:
			fmt.Fprintf(c.out, "Unknown filter key %q.\n", key)
			return nil
		}
	}
	c.current = viewTrades
	if err := c.trades.ApplyFilters(ctx, f); err != nil {
		return err
	}
	c.renderTrades()
	return nil
}

func (c *Console) cmdNavigate(ctx context.Context, delta, absolute int) error {
	var err error
	switch c.current {
	case viewTrades:
		switch {
		case absolute > 0:
			err = c.trades.GoToPage(ctx, absolute)
		case delta > 0:
			err = c.trades.NextPage(ctx)
		default:
			err = c.trades.PrevPage(ctx)
		}
		if err == nil {
			c.renderTrades()
		}
	case viewClients:
		switch {
		case absolute > 0:
			err = c.roster.Load(ctx, absolute)
		case delta > 0:
			err = c.roster.NextPage(ctx)
		default:
			err = c.roster.PrevPage(ctx)
		}
		if err == nil {
			c.renderClients()
		}
	}
	return err
}

func (c *Console) cmdRefresh(ctx context.Context) error {
	if c.current == viewClients {
		if err := c.roster.Load(ctx, c.roster.Page()); err != nil {
			return err
		}
		c.renderClients()
		return nil
	}
	if err := c.trades.Refresh(ctx); err != nil {
		return err
	}
	c.renderTrades()
	return nil
}

// rowClientID maps a displayed 1-based row number to the client on the
// current page.
func (c *Console) rowClientID(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	clients := c.roster.Clients()
	if err != nil || n < 1 || n > len(clients) {
		fmt.Fprintf(c.out, "No client row %q on this page.\n", arg)
		return "", false
	}
	return clients[n-1].ID, true
}

func (c *Console) cmdPaid(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: paid <row>")
		return nil
	}
	id, ok := c.rowClientID(args[0])
	if !ok {
		return nil
	}
	if err := c.roster.TogglePaid(ctx, id); err != nil {
		return err
	}
	_ = auditlog.Append(auditlog.Entry{Action: "paid_toggle", Actor: c.email, Target: id})
	c.renderClients()
	return nil
}

func (c *Console) cmdEdit(args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: edit <row>")
		return nil
	}
	id, ok := c.rowClientID(args[0])
	if !ok {
		return nil
	}
	draft, err := c.roster.BeginEdit(id)
	if err != nil {
		return err
	}
	c.renderDraft(draft)
	return nil
}

func (c *Console) cmdTag(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: tag <instrument>")
		return nil
	}
	if err := c.roster.ToggleTag(strings.Join(args, " ")); err != nil {
		return err
	}
	if _, draft := c.roster.Editing(); draft != nil {
		c.renderDraft(draft)
	}
	return nil
}

func (c *Console) cmdBroker(args []string) error {
	if err := c.roster.SetBroker(strings.Join(args, " ")); err != nil {
		return err
	}
	if _, draft := c.roster.Editing(); draft != nil {
		c.renderDraft(draft)
	}
	return nil
}

func (c *Console) cmdSave(ctx context.Context) error {
	_, draft := c.roster.Editing()
	if draft == nil {
		fmt.Fprintln(c.out, "Nothing to save.")
		return nil
	}
	target := draft.ClientID
	if err := c.roster.SaveEdit(ctx); err != nil {
		fmt.Fprintln(c.out, "Save failed; your draft is kept. Fix and 'save' again or 'cancel'.")
		return err
	}
	_ = auditlog.Append(auditlog.Entry{Action: "assignment_update", Actor: c.email, Target: target})
	fmt.Fprintln(c.out, "Saved.")
	c.renderClients()
	return nil
}

func (c *Console) cmdDelete(args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: delete <row>")
		return nil
	}
	id, ok := c.rowClientID(args[0])
	if !ok {
		return nil
	}
	if err := c.roster.RequestDelete(id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Delete client %s? Type 'confirm' to proceed or 'cancel' to abort.\n", id)
	return nil
}

func (c *Console) cmdConfirm(ctx context.Context) error {
	_, target := c.roster.PendingDelete()
	if err := c.roster.ConfirmDelete(ctx); err != nil {
		return err
	}
	_ = auditlog.Append(auditlog.Entry{Action: "client_delete", Actor: c.email, Target: target})
	fmt.Fprintln(c.out, "Client deleted.")
	c.renderClients()
	return nil
}

// cmdCancel backs out of whichever flow is pending: a delete confirmation
// first, then an open edit.
func (c *Console) cmdCancel() error {
	if state, _ := c.roster.PendingDelete(); state == roster.DeleteConfirmPending {
		c.roster.CancelDelete()
		fmt.Fprintln(c.out, "Delete cancelled.")
		return nil
	}
	if state, _ := c.roster.Editing(); state == roster.EditOpen {
		c.roster.CancelEdit()
		fmt.Fprintln(c.out, "Edit discarded.")
		return nil
	}
	fmt.Fprintln(c.out, "Nothing to cancel.")
	return nil
}

func (c *Console) cmdToken(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: token <clientID> <newToken>")
		return nil
	}
	if err := c.api.UpdateClientToken(ctx, args[0], args[1]); err != nil {
		return err
	}
	_ = auditlog.Append(auditlog.Entry{Action: "client_token_update", Actor: c.email, Target: args[0]})
	fmt.Fprintln(c.out, "Client token updated.")
	return nil
}

// notify prints a failure as a transient notice. An auth rejection has
// already torn the session down; the next prompt lands on the login view.
func (c *Console) notify(ctx context.Context, err error) {
	if adminapi.IsAuthRejected(err) {
		fmt.Fprintln(c.out, "Session expired. Please login again.")
		return
	}
	if errors.Is(err, trades.ErrSuperseded) {
		return // a newer fetch owns the view; nothing to report
	}
	logger.ErrorWithErr(ctx, "Command failed", err)
	var apiErr *adminapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fmt.Fprintf(c.out, "Error: %s\n", apiErr.Message)
		return
	}
	fmt.Fprintf(c.out, "Error: %v\n", err)
}

func (c *Console) printLoginHelp() {
	fmt.Fprintln(c.out, `Commands:
  login <email> <password>   authenticate against the admin API
  quit                       exit`)
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `Commands:
  trades                                  show the trades view
  filter [start=] [end=] [client=] [symbol=]   apply trade filters (resets to page 1)
  clients                                 show the client roster
  next | prev | page <n>                  navigate the current view
  refresh                                 re-fetch the current page
  paid <row>                              toggle a client's paid flag
  edit <row>                              open the trade/broker editor
  tag <instrument>                        toggle a draft instrument tag
  broker <name>                           set the draft broker ('' clears)
  save | cancel                           commit or discard the draft
  delete <row>                            delete a client (asks to confirm)
  confirm                                 confirm the pending delete
  token <clientID> <newToken>             re-provision a client's API token
  logout | quit`)
}
