package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// requiredColumns is the exact header set of a survey export.
var requiredColumns = []string{
	domain.ColAgeGroup,
	domain.ColGender,
	domain.ColIncome,
	domain.ColEmployment,
	domain.ColEducation,
	domain.ColCafeFrequency,
	domain.ColReadingFrequency,
	domain.ColVisitReason,
	domain.ColAvgSpend,
	domain.ColTotalSpend,
	domain.ColMembershipWTP,
	domain.ColVisitLikelihood,
}

type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return idx, nil
}

// recordFromRow maps one table row onto a SurveyRecord. Rows with
// unparseable numeric cells are rejected, not repaired.
func recordFromRow(idx columnIndex, row []string) (domain.SurveyRecord, error) {
	cell := func(column string) string {
		i := idx[column]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	avgSpend, err := parseAmount(cell(domain.ColAvgSpend))
	if err != nil {
		return domain.SurveyRecord{}, fmt.Errorf("column %s: %w", domain.ColAvgSpend, err)
	}
	totalSpend, err := parseAmount(cell(domain.ColTotalSpend))
	if err != nil {
		return domain.SurveyRecord{}, fmt.Errorf("column %s: %w", domain.ColTotalSpend, err)
	}
	membershipWTP, err := parseAmount(cell(domain.ColMembershipWTP))
	if err != nil {
		return domain.SurveyRecord{}, fmt.Errorf("column %s: %w", domain.ColMembershipWTP, err)
	}

	return domain.SurveyRecord{
		AgeGroup:         cell(domain.ColAgeGroup),
		Gender:           cell(domain.ColGender),
		Income:           cell(domain.ColIncome),
		Employment:       cell(domain.ColEmployment),
		Education:        cell(domain.ColEducation),
		CafeFrequency:    cell(domain.ColCafeFrequency),
		ReadingFrequency: cell(domain.ColReadingFrequency),
		VisitReason:      cell(domain.ColVisitReason),
		AvgSpend:         avgSpend,
		TotalSpend:       totalSpend,
		MembershipWTP:    membershipWTP,
		VisitLikelihood:  cell(domain.ColVisitLikelihood),
	}, nil
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount %q is negative", raw)
	}
	return v, nil
}

// recordsFromRows converts header+data rows to records, skipping malformed
// rows. An all-malformed table is an error, not an empty dataset.
func recordsFromRows(sourceName string, header []string, rows [][]string) ([]domain.SurveyRecord, error) {
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SurveyRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		record, err := recordFromRow(idx, row)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	if skipped > 0 {
		slog.Warn("dataset_rows_skipped", "source", sourceName, "skipped", skipped, "kept", len(records))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no parseable rows")
	}
	return records, nil
}
