// Package pnl derives signed profit-and-loss figures from trade records.
// It is pure arithmetic over the record fields and owns the per-instrument
// lot multipliers; it never touches the network or the view state.
package pnl

import (
	"strings"

	"trader-admin-console/internal/types"
)

const (
	// DefaultNiftyMultiplier is the Nifty lot multiplier used unless the
	// deployment overrides it in config. Source material disagreed between
	// 65 and 75; 75 is the current contract lot size.
	DefaultNiftyMultiplier = 75

	naturalGasMultiplier = 1250
	crudeMultiplier      = 100
)

// Calculator computes PnL with a configurable Nifty multiplier.
type Calculator struct {
	niftyMultiplier float64
}

func New(niftyMultiplier float64) Calculator {
	if niftyMultiplier <= 0 {
		niftyMultiplier = DefaultNiftyMultiplier
	}
	return Calculator{niftyMultiplier: niftyMultiplier}
}

// Multiplier resolves the lot multiplier for a symbol by case-insensitive
// substring match. Priority order matters: a symbol containing "naturalgas"
// also contains "gas" variants of other names, so it is checked first.
func (c Calculator) Multiplier(symbol string) float64 {
	s := strings.ToLower(symbol)
	switch {
	case strings.Contains(s, "naturalgas"):
		return naturalGasMultiplier
	case strings.Contains(s, "nifty"):
		return c.niftyMultiplier
	case strings.Contains(s, "crude"):
		return crudeMultiplier
	default:
		return 1
	}
}

// Compute returns the signed PnL for a trade. ok is false when the position
// is still open (no exit price); such trades carry no realized PnL.
func (c Calculator) Compute(t types.Trade) (pnl float64, ok bool) {
	if t.ExitPrice == nil {
		return 0, false
	}
	entry := 0.0
	if t.EntryPrice != nil {
		entry = *t.EntryPrice
	}
	delta := *t.ExitPrice - entry
	return delta * c.Multiplier(t.Symbol) * float64(t.Quantity), true
}

// Aggregate sums realized PnL over the given trades. Open positions
// contribute zero. The caller decides the scope; the trade view passes the
// currently loaded page only.
func (c Calculator) Aggregate(trades []types.Trade) float64 {
	var total float64
	for _, t := range trades {
		if v, ok := c.Compute(t); ok {
			total += v
		}
	}
	return total
}
