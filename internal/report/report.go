// Package report renders a simulation run into the three row-oriented,
// header-named tables consumed by presentation collaborators: signals,
// portfolio, and trades. Tables serialize to delimited text with an
// isomorphic round-trip.
package report

import (
	"strconv"
	"time"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
)

// Table is a row-oriented table with one named header row. A table with no
// data rows still carries its header.
type Table struct {
	Header []string
	Rows   [][]string
}

const timeLayout = time.RFC3339

// formatFloat renders a float with the minimum digits needed to parse back
// to the identical value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Signals builds the signals table: one row per bar with the timestamp, the
// indicator columns the strategy produced, the signal, and the position
// change. Indicator entries that are not yet defined render as empty cells.
func Signals(bars []domain.Bar, res *strategy.Result) *Table {
	header := []string{"timestamp"}
	for _, col := range res.Indicators {
		header = append(header, col.Name)
	}
	header = append(header, "signal", "position_change")

	t := &Table{Header: header, Rows: make([][]string, 0, len(bars))}
	for i, bar := range bars {
		row := make([]string, 0, len(header))
		row = append(row, bar.Timestamp.Format(timeLayout))
		for _, col := range res.Indicators {
			if col.Values[i].Valid {
				row = append(row, formatFloat(col.Values[i].Float64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			strconv.Itoa(res.Signals[i]),
			strconv.Itoa(res.PositionChanges[i]),
		)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// portfolioHeader is the fixed column set of the portfolio table.
var portfolioHeader = []string{
	"timestamp", "cash", "shares", "holdings", "total_equity", "period_return", "drawdown",
}

// Portfolio builds the portfolio table: one row per bar of end-of-bar state.
func Portfolio(snapshots []domain.Snapshot) *Table {
	t := &Table{Header: portfolioHeader, Rows: make([][]string, 0, len(snapshots))}
	for _, s := range snapshots {
		t.Rows = append(t.Rows, []string{
			s.Timestamp.Format(timeLayout),
			formatFloat(s.Cash),
			strconv.FormatInt(s.Shares, 10),
			formatFloat(s.Holdings),
			formatFloat(s.Equity),
			formatFloat(s.PeriodReturn),
			formatFloat(s.Drawdown),
		})
	}
	return t
}

// tradesHeader is the fixed column set of the trades table.
var tradesHeader = []string{"timestamp", "action", "quantity", "price", "cash_after"}

// Trades builds the trades table: one row per executed order. With no trades
// the table is header-only.
func Trades(trades []domain.Trade) *Table {
	t := &Table{Header: tradesHeader, Rows: make([][]string, 0, len(trades))}
	for _, tr := range trades {
		t.Rows = append(t.Rows, []string{
			tr.Timestamp.Format(timeLayout),
			string(tr.Action),
			strconv.FormatInt(tr.Qty, 10),
			formatFloat(tr.Price),
			formatFloat(tr.CashAfter),
		})
	}
	return t
}
