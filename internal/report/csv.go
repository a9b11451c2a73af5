package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
)

// WriteCSV serializes the table as comma-delimited text with the header as
// the first record.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to a CSV file at path, creating or truncating
// it.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.WriteCSV(f)
}

// ReadCSV parses comma-delimited text produced by WriteCSV back into a
// Table. The first record becomes the header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("report: empty table, missing header row")
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadFile reads a CSV table from the file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ParsePortfolio decodes a portfolio table back into snapshots. The header
// must match the layout Portfolio produces.
func ParsePortfolio(t *Table) ([]domain.Snapshot, error) {
	if err := checkHeader(t.Header, portfolioHeader); err != nil {
		return nil, err
	}
	snapshots := make([]domain.Snapshot, 0, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != len(portfolioHeader) {
			return nil, fmt.Errorf("report: portfolio row %d has %d fields, want %d", i, len(row), len(portfolioHeader))
		}
		ts, err := time.Parse(timeLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("report: portfolio row %d: %w", i, err)
		}
		shares, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("report: portfolio row %d: %w", i, err)
		}
		floats, err := parseFloats(row[1], row[3], row[4], row[5], row[6])
		if err != nil {
			return nil, fmt.Errorf("report: portfolio row %d: %w", i, err)
		}
		snapshots = append(snapshots, domain.Snapshot{
			Timestamp:    ts,
			Cash:         floats[0],
			Shares:       shares,
			Holdings:     floats[1],
			Equity:       floats[2],
			PeriodReturn: floats[3],
			Drawdown:     floats[4],
		})
	}
	return snapshots, nil
}

// ParseTrades decodes a trades table back into trade records. The header
// must match the layout Trades produces.
func ParseTrades(t *Table) ([]domain.Trade, error) {
	if err := checkHeader(t.Header, tradesHeader); err != nil {
		return nil, err
	}
	trades := make([]domain.Trade, 0, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != len(tradesHeader) {
			return nil, fmt.Errorf("report: trades row %d has %d fields, want %d", i, len(row), len(tradesHeader))
		}
		ts, err := time.Parse(timeLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("report: trades row %d: %w", i, err)
		}
		action := domain.TradeAction(row[1])
		if action != domain.ActionBuy && action != domain.ActionSell {
			return nil, fmt.Errorf("report: trades row %d: unknown action %q", i, row[1])
		}
		qty, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("report: trades row %d: %w", i, err)
		}
		floats, err := parseFloats(row[3], row[4])
		if err != nil {
			return nil, fmt.Errorf("report: trades row %d: %w", i, err)
		}
		trades = append(trades, domain.Trade{
			Timestamp: ts,
			Action:    action,
			Qty:       qty,
			Price:     floats[0],
			CashAfter: floats[1],
		})
	}
	return trades, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("report: header has %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("report: header column %d is %q, want %q", i, got[i], want[i])
		}
	}
	return nil
}

func parseFloats(fields ...string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
