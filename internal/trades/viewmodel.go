// Package trades owns the trade page view state: current filters, the
// loaded page, pagination bookkeeping, and the derived PnL aggregate.
// It is the single writer of its page cache.
package trades

import (
	"context"
	"errors"
	"sync"
	"time"

	"trader-admin-console/internal/interfaces"
	"trader-admin-console/internal/pnl"
	"trader-admin-console/internal/types"
)

// ErrSuperseded is returned when a fetch completed after a newer fetch was
// issued; its result has been discarded and the view is untouched.
var ErrSuperseded = errors.New("trades: fetch superseded by a newer request")

// Filters is the user-selected filter set for the trades view.
type Filters struct {
	Start      string // YYYY-MM-DD, empty to omit
	End        string
	ClientName string
	Symbol     string
}

// ViewModel holds one page of trades plus the filter/pagination state that
// produced it. Every fetch carries a monotonic sequence number; only the
// latest issued fetch may write the view, so a slow stale response can
// never overwrite a newer page.
type ViewModel struct {
	mu    sync.Mutex
	api   interfaces.AdminAPI
	calc  pnl.Calculator
	limit int

	filters    Filters
	page       int
	totalPages int
	trades     []types.Trade
	loading    bool
	pending    types.TradeQuery
	seq        uint64
}

// New creates a view-model with filters defaulted to today's trades,
// mirroring the dashboard's first load.
func New(api interfaces.AdminAPI, calc pnl.Calculator, limit int) *ViewModel {
	today := time.Now().Format("2006-01-02")
	return &ViewModel{
		api:        api,
		calc:       calc,
		limit:      limit,
		filters:    Filters{Start: today, End: today},
		page:       1,
		totalPages: 1,
	}
}

// ApplyFilters replaces the filter set, resets to page 1, and fetches.
func (vm *ViewModel) ApplyFilters(ctx context.Context, f Filters) error {
	vm.mu.Lock()
	vm.filters = f
	vm.page = 1
	return vm.fetchLocked(ctx)
}

// Refresh re-fetches the current filter/page combination.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	return vm.fetchLocked(ctx)
}

// NextPage advances one page. At the last page it is a no-op: no fetch.
func (vm *ViewModel) NextPage(ctx context.Context) error {
	vm.mu.Lock()
	if vm.page >= vm.totalPages {
		vm.mu.Unlock()
		return nil
	}
	vm.page++
	return vm.fetchLocked(ctx)
}

// PrevPage goes back one page. At page 1 it is a no-op.
func (vm *ViewModel) PrevPage(ctx context.Context) error {
	vm.mu.Lock()
	if vm.page <= 1 {
		vm.mu.Unlock()
		return nil
	}
	vm.page--
	return vm.fetchLocked(ctx)
}

// GoToPage jumps to page n, clamped to [1, totalPages]. Jumping to the
// current page is a no-op.
func (vm *ViewModel) GoToPage(ctx context.Context, n int) error {
	vm.mu.Lock()
	if n < 1 {
		n = 1
	}
	if n > vm.totalPages {
		n = vm.totalPages
	}
	if n == vm.page {
		vm.mu.Unlock()
		return nil
	}
	vm.page = n
	return vm.fetchLocked(ctx)
}

// fetchLocked issues exactly one fetch for the current state. The caller
// holds vm.mu; it is released while the request is in flight and the
// result is applied only if no newer fetch was issued meanwhile.
func (vm *ViewModel) fetchLocked(ctx context.Context) error {
	q := types.TradeQuery{
		Start:      vm.filters.Start,
		End:        vm.filters.End,
		ClientName: vm.filters.ClientName,
		Symbol:     vm.filters.Symbol,
		Page:       vm.page,
		Limit:      vm.limit,
	}
	if vm.loading && q == vm.pending {
		// Identical fetch already in flight; don't stack a duplicate.
		vm.mu.Unlock()
		return nil
	}
	vm.seq++
	mySeq := vm.seq
	vm.loading = true
	vm.pending = q
	vm.mu.Unlock()

	page, err := vm.api.Trades(ctx, q)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if mySeq != vm.seq {
		return ErrSuperseded
	}
	vm.loading = false
	if err != nil {
		// Prior page stays on screen; the caller surfaces the error.
		return err
	}

	vm.trades = page.Trades
	vm.totalPages = page.TotalPages
	if vm.totalPages < 1 {
		vm.totalPages = 1
	}
	// The server's page number is authoritative when it reports one.
	if page.Page >= 1 {
		vm.page = page.Page
	}
	if vm.page > vm.totalPages {
		vm.page = vm.totalPages
	}
	return nil
}

// Trades returns a copy of the loaded page.
func (vm *ViewModel) Trades() []types.Trade {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]types.Trade, len(vm.trades))
	copy(out, vm.trades)
	return out
}

func (vm *ViewModel) Page() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.page
}

func (vm *ViewModel) TotalPages() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.totalPages
}

func (vm *ViewModel) Loading() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loading
}

func (vm *ViewModel) Filters() Filters {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.filters
}

// RowPnL computes the realized PnL for one trade; ok is false for open
// positions, rendered as "-".
func (vm *ViewModel) RowPnL(t types.Trade) (float64, bool) {
	return vm.calc.Compute(t)
}

// TotalPnL aggregates realized PnL over the loaded page only. Pagination
// materializes one page at a time, so that is the deliberate scope.
func (vm *ViewModel) TotalPnL() float64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.calc.Aggregate(vm.trades)
}
