package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"trader-admin-console/internal/adminapi"
	"trader-admin-console/internal/pnl"
	"trader-admin-console/internal/roster"
	"trader-admin-console/internal/session"
	"trader-admin-console/internal/trades"
	"trader-admin-console/internal/types"
)

type scriptedAPI struct {
	gate      *session.Gate
	tradesErr error
	trades    []types.Trade
}

func (s *scriptedAPI) Login(ctx context.Context, email, password string) error {
	return s.gate.Store(ctx, "tok")
}
func (s *scriptedAPI) Logout(ctx context.Context) { s.gate.Clear(ctx) }
func (s *scriptedAPI) Trades(ctx context.Context, q types.TradeQuery) (*types.TradesPage, error) {
	if s.tradesErr != nil {
		// Mirror the real client: an auth rejection tears the session down.
		if adminapi.IsAuthRejected(s.tradesErr) {
			s.gate.Clear(ctx)
		}
		return nil, s.tradesErr
	}
	return &types.TradesPage{Trades: s.trades, TotalPages: 1, Page: q.Page}, nil
}
func (s *scriptedAPI) Clients(context.Context, int, int) (*types.ClientsPage, error) {
	return &types.ClientsPage{Clients: []types.Client{{ID: "c1", ClientName: "Asha"}}, TotalPages: 1}, nil
}
func (s *scriptedAPI) AllClients(context.Context, int, int) (*types.ClientsPage, error) {
	return &types.ClientsPage{}, nil
}
func (s *scriptedAPI) SetPaid(context.Context, string, bool) error { return nil }
func (s *scriptedAPI) UpdateTradesAndBroker(context.Context, string, []string, string) error {
	return nil
}
func (s *scriptedAPI) DeleteClient(context.Context, string) error              { return nil }
func (s *scriptedAPI) UpdateClientToken(context.Context, string, string) error { return nil }

func runScript(t *testing.T, api *scriptedAPI, gate *session.Gate, script string) string {
	t.Helper()
	var out bytes.Buffer
	tv := trades.New(api, pnl.New(pnl.DefaultNiftyMultiplier), 10)
	rc := roster.New(api, 10)
	c := New(api, gate, tv, rc, strings.NewReader(script), &out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func newGate(t *testing.T) *session.Gate {
	t.Helper()
	return session.Open(t.TempDir() + "/token")
}

func TestLoginThenTradesRendered(t *testing.T) {
	gate := newGate(t)
	entry, exit := 100.0, 150.0
	api := &scriptedAPI{gate: gate, trades: []types.Trade{{
		ID: "t1", ClientName: "Asha", Symbol: "NIFTY50", Quantity: 2,
		EntryPrice: &entry, ExitPrice: &exit, Status: "closed",
		CreatedAt: time.Date(2026, 8, 27, 4, 0, 0, 0, time.UTC),
	}}}

	out := runScript(t, api, gate, "login admin@trader.com pw\nquit\n")

	if !strings.Contains(out, "Login successful.") {
		t.Errorf("missing login confirmation:\n%s", out)
	}
	if !strings.Contains(out, "NIFTY50") {
		t.Errorf("trades table not rendered:\n%s", out)
	}
	if !strings.Contains(out, "7500.00") {
		t.Errorf("per-row PnL not rendered:\n%s", out)
	}
	// 04:00 UTC is 09:30 IST
	if !strings.Contains(out, "09:30:00") {
		t.Errorf("created_at not converted to IST:\n%s", out)
	}
}

func TestAuthRejectionFallsBackToLoginView(t *testing.T) {
	gate := newGate(t)
	if err := gate.Store(context.Background(), "stale"); err != nil {
		t.Fatal(err)
	}
	api := &scriptedAPI{gate: gate}
	api.tradesErr = &adminapi.Error{Kind: adminapi.KindAuthRejected, Status: 401}

	out := runScript(t, api, gate, "trades\nquit\n")

	if !strings.Contains(out, "Session expired") {
		t.Errorf("auth rejection not surfaced:\n%s", out)
	}
	if !strings.Contains(out, "login>") {
		t.Errorf("next prompt is not the login view:\n%s", out)
	}
}

func TestUnauthenticatedCommandsAreGated(t *testing.T) {
	gate := newGate(t)
	api := &scriptedAPI{gate: gate}

	out := runScript(t, api, gate, "clients\nquit\n")
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("protected command not gated:\n%s", out)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatPrice(nil); got != "-" {
		t.Errorf("formatPrice(nil) = %q", got)
	}
	v := 1234.5
	if got := formatPrice(&v); got != "1234.50" {
		t.Errorf("formatPrice = %q", got)
	}
	if got := formatTimePtr(nil); got != "-" {
		t.Errorf("formatTimePtr(nil) = %q", got)
	}
	utc := time.Date(2026, 8, 27, 18, 30, 0, 0, time.UTC)
	if got := formatTime(utc); got != "2026-08-28 00:00:00" {
		t.Errorf("formatTime = %q, want midnight IST next day", got)
	}
}
