package parser

import (
	"strconv"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/xuri/excelize/v2"
)

// ReadGrid reads a sheet into a Grid.
// Values of merged ranges are copied into every covered cell so that header
// text spanning several columns is visible to each of them.
func ReadGrid(f *excelize.File, sheetName string) (*Grid, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return NewGrid(nil), nil
	}

	cells := make([][]models.CellValue, len(rows))
	for rowIdx, row := range rows {
		cells[rowIdx] = make([]models.CellValue, len(row))
		for colIdx, cellValue := range row {
			cells[rowIdx][colIdx] = parseValue(cellValue)
		}
	}
	grid := NewGrid(cells)

	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}
	for _, merge := range merges {
		bounds, ok := parseRangeToBounds(merge.GetStartAxis() + ":" + merge.GetEndAxis())
		if !ok {
			continue
		}
		value := parseValue(merge.GetCellValue())
		for r := bounds.StartRow; r <= bounds.EndRow && r < grid.Height(); r++ {
			for c := bounds.StartCol; c <= bounds.EndCol && c < grid.Width(); c++ {
				grid.rows[r][c] = value
			}
		}
	}

	return grid, nil
}

// parseValue decides the cell kind for raw sheet text.
// Integers and decimals become numbers, everything else stays text.
func parseValue(s string) models.CellValue {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return models.StringCell(s)
	}
	// Leading zeros carry meaning in code columns ("001"), keep them as text.
	if len(trimmed) > 1 && trimmed[0] == '0' && trimmed[1] != '.' {
		return models.StringCell(s)
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return models.NumberCell(float64(i))
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return models.NumberCell(f)
	}
	return models.StringCell(s)
}
