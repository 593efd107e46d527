// Package table builds the demo table dataset and its lazily computed column.
package table

import (
	"encoding/json"
	"fmt"

	"github.com/thamit1/lazy-loading/internal/model"
)

// Rows returns the fast columns for n table rows, ids 1..n ascending. The
// data is deterministic so every request observes the same table.
func Rows(n int) []model.Row {
	rows := make([]model.Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, model.Row{
			ID:    i,
			Name:  fmt.Sprintf("Item %d", i),
			Price: i * 10,
		})
	}
	return rows
}

// SlowValues derives the slow column for the given rows. The result has the
// same ids in the same order as the input.
func SlowValues(rows []model.Row) []model.SlowResult {
	out := make([]model.SlowResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.SlowResult{
			ID:        r.ID,
			SlowValue: fmt.Sprintf("Computed-%d", r.ID),
		})
	}
	return out
}

// Source holds the dataset encoded once at startup. Payload bytes are shared
// by all streams, which keeps repeated responses byte-identical.
type Source struct {
	rowCount int
	fastJSON []byte
	slowJSON []byte
}

// NewSource encodes the dataset for n rows. Encoding failure is surfaced
// here so a broken payload stops the service at boot instead of mid-stream.
func NewSource(n int) (*Source, error) {
	rows := Rows(n)
	fast, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode fast rows: %w", err)
	}
	slow, err := json.Marshal(SlowValues(rows))
	if err != nil {
		return nil, fmt.Errorf("encode slow values: %w", err)
	}
	return &Source{rowCount: n, fastJSON: fast, slowJSON: slow}, nil
}

// RowCount returns the number of rows in the dataset.
func (s *Source) RowCount() int { return s.rowCount }

// FastJSON returns the encoded fast rows. Callers must not mutate it.
func (s *Source) FastJSON() []byte { return s.fastJSON }

// SlowJSON returns the encoded slow column values. Callers must not mutate it.
func (s *Source) SlowJSON() []byte { return s.slowJSON }
