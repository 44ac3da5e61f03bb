// Package sheets adapts the Google Sheets v4 API to the pipeline's row
// appender port.
package sheets

import (
	"context"
	"fmt"

	gsheets "google.golang.org/api/sheets/v4"

	"github.com/GoCodeAlone/imgreport/pipeline"
)

// defaultRange is the fixed target range rows are appended to.
const defaultRange = "Sheet1"

// Appender implements pipeline.RowAppender over a Sheets service.
type Appender struct {
	svc *gsheets.Service
	rng string
}

// NewAppender wraps an initialized Sheets service. An empty range selects
// the default sheet.
func NewAppender(svc *gsheets.Service, rng string) *Appender {
	if rng == "" {
		rng = defaultRange
	}
	return &Appender{svc: svc, rng: rng}
}

// AppendRow appends one row with user-entered input interpretation so
// HYPERLINK formula cells render as links rather than literal text.
func (a *Appender) AppendRow(ctx context.Context, sheetID string, row []any) (int64, error) {
	vr := &gsheets.ValueRange{Values: [][]any{row}}

	rsp, err := a.svc.Spreadsheets.Values.Append(sheetID, a.rng, vr).
		ValueInputOption("USER_ENTERED").
		Fields("updates(updatedCells)").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append row to sheet %q: %w", sheetID, err)
	}
	if rsp.Updates == nil {
		return 0, nil
	}
	return rsp.Updates.UpdatedCells, nil
}

var _ pipeline.RowAppender = (*Appender)(nil)
