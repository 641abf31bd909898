package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// FileSource loads a survey export from the local filesystem. The parser is
// picked by extension: .xlsx goes through excelize, everything else is CSV.
type FileSource struct {
	name string
	path string
}

func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Load(ctx context.Context) (*domain.SurveyDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, domain.WrapError(domain.ErrSourceUnavailable, "load "+s.name, fmt.Errorf("no path configured"))
	}

	var (
		header []string
		rows   [][]string
		err    error
	)
	if strings.EqualFold(filepath.Ext(s.path), ".xlsx") {
		header, rows, err = readXLSX(s.path)
	} else {
		header, rows, err = readCSV(s.path)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrSourceUnavailable, "load "+s.name, err)
	}

	records, err := recordsFromRows(s.name, header, rows)
	if err != nil {
		return nil, domain.WrapError(domain.ErrSourceUnavailable, "load "+s.name, err)
	}
	return &domain.SurveyDataset{Records: records, Source: s.name}, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// readXLSX reads the first sheet of a workbook; row one is the header.
func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}
	return rows[0], rows[1:], nil
}
