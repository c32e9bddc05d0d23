package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rlin/ambienttracker/internal/retry"
)

// DialFunc builds an authenticated Backend. The writer dials per write so a
// credential rotated on disk is picked up without a restart.
type DialFunc func(ctx context.Context) (Backend, error)

// Writer appends weather snapshots to a year-partitioned spreadsheet: one
// sheet per calendar year, a frozen header row in row 1, and one data row
// appended per write with each sensor value at its mapped column.
type Writer struct {
	dial    DialFunc
	mapping Mapping

	maxAttempts int
	backoffBase time.Duration
	now         func() time.Time
}

// NewWriter builds a Writer around the given dial function and sensor
// mapping.
func NewWriter(dial DialFunc, mapping Mapping) *Writer {
	return &Writer{
		dial:        dial,
		mapping:     mapping,
		maxAttempts: 4,
		backoffBase: 10 * time.Second,
		now:         time.Now,
	}
}

// Write appends one snapshot to the current year's sheet, creating the
// sheet with its header row first if this is the first write of a new year.
// Rows are always appended after the last occupied row, never overwritten.
func (w *Writer) Write(ctx context.Context, snapshot map[string]interface{}) error {
	var backend Backend
	err := retry.Do(ctx, "sheets dial", w.maxAttempts, w.backoffBase, func(int) error {
		b, err := w.dial(ctx)
		if err != nil {
			return err
		}
		backend = b
		return nil
	})
	if err != nil {
		return err
	}

	year := strconv.Itoa(w.now().Year())

	// Column A doubles as the row-count probe: the number of values read
	// back tells us where the next row goes.
	var rows [][]interface{}
	err = retry.Do(ctx, "sheets read", w.maxAttempts, w.backoffBase, func(int) error {
		vals, err := w.readOrCreate(ctx, backend, year)
		if err != nil {
			return err
		}
		rows = vals
		return nil
	})
	if err != nil {
		return err
	}

	next := len(rows) + 1
	rng := fmt.Sprintf("%s!A%d", year, next)
	row := w.mapping.Row(snapshot)

	err = retry.Do(ctx, "sheets append", w.maxAttempts, w.backoffBase, func(int) error {
		return backend.UpdateRange(ctx, rng, [][]interface{}{row})
	})
	if err != nil {
		return err
	}

	log.Infof("appended snapshot at %s", rng)
	return nil
}

// readOrCreate reads column A of the year sheet. A missing sheet is created
// with its frozen header row and then read again; any other error is left
// for the caller's retry loop.
func (w *Writer) readOrCreate(ctx context.Context, backend Backend, year string) ([][]interface{}, error) {
	vals, err := backend.ReadColumnA(ctx, year)
	if !errors.Is(err, ErrSheetNotFound) {
		return vals, err
	}

	log.Infof("no sheet for year %s yet, creating one", year)
	if err := backend.CreateSheet(ctx, year); err != nil {
		return nil, err
	}
	header := [][]interface{}{w.mapping.HeaderRow()}
	if err := backend.UpdateRange(ctx, year+"!A1", header); err != nil {
		return nil, err
	}

	return backend.ReadColumnA(ctx, year)
}
