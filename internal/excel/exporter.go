package excel

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/wordcoach/pkg/models"
)

// ExportSheet is the sheet name used for exported workbooks
const ExportSheet = "Sheet1"

var exportHeader = []interface{}{"source", "target", "added_on", "wrong_count"}

// BuildWorkbook lays out entries in a new workbook, one word per row under a
// header row. The caller must close the returned file.
func BuildWorkbook(entries []models.WordEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to write header")
	}
	for i, e := range entries {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		added := ""
		if !e.AddedOn.IsZero() {
			added = models.DateKey(e.AddedOn)
		}
		row := []interface{}{e.SourceText, e.TargetText, added, e.WrongCount}
		if err := f.SetSheetRow(ExportSheet, addr, &row); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}
	return f, nil
}

// ExportWords writes entries to an xlsx file at path
func ExportWords(path string, entries []models.WordEntry) error {
	f, err := BuildWorkbook(entries)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}
	return nil
}
