package export

import (
	"fmt"
	"io"

	"github.com/omarshaarawi/leaguefeed/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	PlayersSheet  = "Players"
	TeamsSheet    = "Teams"
	FixturesSheet = "Fixtures"
)

var fixtureHeader = []string{"Home Team", "Away Team", "Date", "Time", "Venue"}

// Workbook is the spreadsheet download. Empty sections get no sheet.
type Workbook struct {
	Players  []models.PlayerRecord
	Teams    []models.TeamRecord
	Fixtures []models.FixtureRecord
}

func (wb Workbook) WriteTo(w io.Writer) (int64, error) {
	f := excelize.NewFile()
	defer f.Close()

	var sheets []string
	if len(wb.Players) > 0 {
		rows := make([]models.Attributes, len(wb.Players))
		for i, p := range wb.Players {
			rows[i] = p.Attributes
		}
		if err := writeAttributeSheet(f, PlayersSheet, rows); err != nil {
			return 0, err
		}
		sheets = append(sheets, PlayersSheet)
	}
	if len(wb.Teams) > 0 {
		rows := make([]models.Attributes, len(wb.Teams))
		for i, t := range wb.Teams {
			rows[i] = t.Attributes
		}
		if err := writeAttributeSheet(f, TeamsSheet, rows); err != nil {
			return 0, err
		}
		sheets = append(sheets, TeamsSheet)
	}
	if len(wb.Fixtures) > 0 {
		if err := writeFixtureSheet(f, wb.Fixtures); err != nil {
			return 0, err
		}
		sheets = append(sheets, FixturesSheet)
	}
	if len(sheets) == 0 {
		return 0, fmt.Errorf("nothing to export")
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(sheets[0]); err == nil {
		f.SetActiveSheet(idx)
	}

	cw := &countingWriter{w: w}
	if err := f.Write(cw); err != nil {
		return cw.n, fmt.Errorf("writing workbook: %w", err)
	}
	return cw.n, nil
}

func writeAttributeSheet(f *excelize.File, sheet string, rows []models.Attributes) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	header := columns(rows)
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, attrs := range rows {
		row := make([]string, len(header))
		for j, column := range header {
			row[j], _ = attrs.Get(column)
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeFixtureSheet(f *excelize.File, fixtures []models.FixtureRecord) error {
	if _, err := f.NewSheet(FixturesSheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", FixturesSheet, err)
	}
	if err := writeRow(f, FixturesSheet, 1, fixtureHeader); err != nil {
		return err
	}
	for i, fx := range fixtures {
		if err := writeRow(f, FixturesSheet, i+2, []string{fx.HomeTeam, fx.AwayTeam, fx.Date, fx.Time, fx.Venue}); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
