package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	SourceColumn string // Column with the source text
	TargetColumn string // Column with the target text
	SheetName    string // Sheet to import, first sheet when empty
	StartRow     int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SourceColumn: "A",
		TargetColumn: "B",
		StartRow:     2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Added          int
	Skipped        int
	Errors         []string
}

// WordAdder receives imported words in one batch
type WordAdder interface {
	AddWords(ctx context.Context, pairs []words.Pair) (models.BatchResult, error)
}

// ImportWords reads the file and hands every valid row to adder
func ImportWords(ctx context.Context, adder WordAdder, config ImportConfig) (*ImportResult, error) {
	pairs, result, err := ReadPairs(config)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return result, nil
	}

	batch, err := adder.AddWords(ctx, pairs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to add imported words")
	}
	result.Added = batch.Added
	result.Skipped += batch.Skipped
	result.Errors = append(result.Errors, batch.Errors...)
	return result, nil
}

// ReadPairs parses the file into word pairs without adding them. Rows with
// a blank cell are counted as skipped.
func ReadPairs(config ImportConfig) ([]words.Pair, *ImportResult, error) {
	srcIdx, err := columnToIndex(config.SourceColumn)
	if err != nil {
		return nil, nil, err
	}
	dstIdx, err := columnToIndex(config.TargetColumn)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	if strings.EqualFold(filepath.Ext(config.FilePath), ".csv") {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, nil, err
	}

	result := &ImportResult{}
	var pairs []words.Pair
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		p := words.Pair{Source: cleanWord(cell(row, srcIdx)), Target: strings.TrimSpace(cell(row, dstIdx))}
		if p.Source == "" || p.Target == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: empty word or translation", i+1))
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rows")
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading CSV")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cleanWord drops trailing parenthesised notes like "go (went, gone)"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts a column name like "B" to a zero based index
func columnToIndex(column string) (int, error) {
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid column %q", column)
	}
	return n - 1, nil
}
