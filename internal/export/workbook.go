package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/brca-pedigree-sim/internal/domain"
)

// Sheet names of the workbook.
const (
	PedigreeSheet      = "Pedigrees"
	FamilyHistorySheet = "Family History"
)

// WriteWorkbook writes pedigrees and family history summaries as a two-sheet
// Excel workbook with the same columns as the text files.
func WriteWorkbook(w io.Writer, pedigrees []*domain.Pedigree, summaries []domain.FamilyHistorySummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(PedigreeSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(FamilyHistorySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(PedigreeSheet)
	if err != nil {
		return fmt.Errorf("failed to find sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	var pedigreeRows [][]string
	for _, ped := range pedigrees {
		for _, ind := range ped.Members {
			pedigreeRows = append(pedigreeRows, PedigreeRecord(ind))
		}
	}
	if err := writeSheet(f, PedigreeSheet, PedigreeHeader, pedigreeRows, headerStyle); err != nil {
		return err
	}

	historyRows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		vector := summary.Vector()
		row := make([]string, len(vector))
		for i, v := range vector {
			row[i] = strconv.Itoa(v)
		}
		historyRows = append(historyRows, row)
	}
	if err := writeSheet(f, FamilyHistorySheet, FamilyHistoryHeader, historyRows, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheet fills a sheet with a styled, frozen header row. Numeric values
// are stored as numbers so spreadsheet filters and sums work on them.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, headerStyle int) error {
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			var v any = value
			if n, err := strconv.Atoi(value); err == nil {
				v = n
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
