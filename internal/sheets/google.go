package sheets

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrSheetNotFound reports that the requested sheet does not exist in the
// spreadsheet yet.
var ErrSheetNotFound = errors.New("sheet not found")

// Backend is the tabular-store surface the writer needs. The real
// implementation talks to Google Sheets; tests substitute a fake.
type Backend interface {
	// ReadColumnA returns the values in column A of the named sheet.
	// A missing sheet is reported as ErrSheetNotFound.
	ReadColumnA(ctx context.Context, sheet string) ([][]interface{}, error)

	// CreateSheet adds a new sheet with the given title and freezes its
	// first row.
	CreateSheet(ctx context.Context, title string) error

	// UpdateRange writes values at the given A1-notation range with RAW
	// input, so nothing is interpreted as a formula server-side.
	UpdateRange(ctx context.Context, rng string, values [][]interface{}) error
}

type googleBackend struct {
	service       *sheets.Service
	spreadsheetID string
}

// Dial builds an authenticated Google Sheets backend from a credentials
// file.
func Dial(ctx context.Context, credentialsFile, spreadsheetID string) (Backend, error) {
	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	return &googleBackend{service: srv, spreadsheetID: spreadsheetID}, nil
}

func (g *googleBackend) ReadColumnA(ctx context.Context, sheet string) ([][]interface{}, error) {
	resp, err := g.service.Spreadsheets.Values.Get(g.spreadsheetID, sheet+"!A:A").Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 400 && strings.Contains(gerr.Message, "Unable to parse range") {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleBackend) CreateSheet(ctx context.Context, title string) error {
	log.Infof("creating sheet %q", title)

	resp, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return err
	}

	sheetID := resp.Replies[0].AddSheet.Properties.SheetId

	_, err = g.service.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		}},
	}).Context(ctx).Do()
	return err
}

func (g *googleBackend) UpdateRange(ctx context.Context, rng string, values [][]interface{}) error {
	_, err := g.service.Spreadsheets.Values.Update(g.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}
