// Package parser reads workbook cells into grids and detects table regions.
package parser

import "github.com/ukaji3/edimap-go/pkg/edimap/models"

// Grid is an immutable row-major snapshot of a sheet's cell values.
// Rows are padded to a common width so every (row, col) inside the
// bounds is addressable.
type Grid struct {
	rows  [][]models.CellValue
	width int
}

// NewGrid builds a Grid from ragged rows, padding short rows with empty cells.
func NewGrid(rows [][]models.CellValue) *Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	padded := make([][]models.CellValue, len(rows))
	for i, row := range rows {
		padded[i] = make([]models.CellValue, width)
		copy(padded[i], row)
	}
	return &Grid{rows: padded, width: width}
}

// GridFromStrings builds a Grid from string rows, parsing numeric text into numbers.
func GridFromStrings(rows [][]string) *Grid {
	cells := make([][]models.CellValue, len(rows))
	for i, row := range rows {
		cells[i] = make([]models.CellValue, len(row))
		for j, s := range row {
			cells[i][j] = parseValue(s)
		}
	}
	return NewGrid(cells)
}

// Height returns the number of rows.
func (g *Grid) Height() int { return len(g.rows) }

// Width returns the maximum row width observed when the grid was built.
func (g *Grid) Width() int { return g.width }

// At returns the cell at (r, c), or an empty cell when out of bounds.
func (g *Grid) At(r, c int) models.CellValue {
	if r < 0 || r >= len(g.rows) || c < 0 || c >= g.width {
		return models.CellValue{}
	}
	return g.rows[r][c]
}

// Row returns a copy of row r, or nil when out of bounds.
func (g *Grid) Row(r int) []models.CellValue {
	if r < 0 || r >= len(g.rows) {
		return nil
	}
	out := make([]models.CellValue, g.width)
	copy(out, g.rows[r])
	return out
}
