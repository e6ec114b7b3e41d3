// Package excel exports analysis reports as spreadsheet workbooks for
// manuscript supplementary material.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	domstats "goablate/domain/stats"
)

const statisticsSheet = "ablation_statistics"

var statisticsHeader = []string{
	"condition", "n_normal", "n_ablated", "normal_mean", "ablation_mean",
	"U", "p_raw", "p_corrected", "cohens_d", "significant",
}

// WriteStatisticsWorkbook writes the corrected ablation statistics table to
// an .xlsx file, one row per comparison plus a row per skipped condition.
func WriteStatisticsWorkbook(path string, report *domstats.AblationReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statisticsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for col, name := range statisticsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(statisticsSheet, cell, name); err != nil {
			return err
		}
	}

	for i, comp := range report.Comparisons {
		row := []any{
			comp.Condition, comp.NNormal, comp.NAblated,
			comp.NormalMean, comp.AblationMean,
			comp.U, comp.PRaw, comp.PCorrected, comp.CohensD, comp.Significant,
		}
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	next := len(report.Comparisons) + 2
	for i, skipped := range report.Skipped {
		row := []any{skipped.Condition + " (skipped: " + skipped.Reason + ")"}
		if err := writeRow(f, next+i, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(statisticsSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
