package models

import "fmt"

// TableType classifies a detected table region.
type TableType string

const (
	TableInformationItems   TableType = "information-items"
	TableCefactBIE          TableType = "cefact-bie"
	TableDataTypeSupplement TableType = "data-type-supplement"
	TableMapping            TableType = "mapping"
	TableCodeDefinition     TableType = "code-definition"
	TableUnknown            TableType = "unknown"
)

// RegionBounds represents cell coordinate bounds of a table (0-based, inclusive).
type RegionBounds struct {
	// StartRow is the first row of the region.
	StartRow int `json:"startRow"`
	// EndRow is the last row of the region.
	EndRow int `json:"endRow"`
	// StartCol is the first column of the region.
	StartCol int `json:"startCol"`
	// EndCol is the last column of the region.
	EndCol int `json:"endCol"`
}

// Rows returns the number of rows spanned.
func (b RegionBounds) Rows() int { return b.EndRow - b.StartRow + 1 }

// Cols returns the number of columns spanned.
func (b RegionBounds) Cols() int { return b.EndCol - b.StartCol + 1 }

// Ref renders the bounds in A1 notation, e.g. "A1:D7".
func (b RegionBounds) Ref() string {
	return fmt.Sprintf("%s%d:%s%d", ColumnName(b.StartCol), b.StartRow+1, ColumnName(b.EndCol), b.EndRow+1)
}

// ColumnName converts a 0-based column index to its letter name.
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	name := ""
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}

// TableRegion is a rectangular sub-range of a sheet believed to hold one table.
type TableRegion struct {
	RegionBounds
	// HeaderRow is the row whose cells are the column labels.
	HeaderRow int `json:"headerRow"`
	// TableType is the classified kind of table.
	TableType TableType `json:"tableType"`
	// Confidence is the detection score in [0, 1].
	Confidence float64 `json:"confidence"`
	// Description is a short human-readable label.
	Description string `json:"description,omitempty"`
}

// Valid reports whether the region satisfies the size and ordering invariants.
func (r TableRegion) Valid() bool {
	return r.StartRow <= r.HeaderRow && r.HeaderRow <= r.EndRow &&
		r.StartCol <= r.EndCol && r.Rows() >= 3 && r.Cols() >= 2
}

// DetectionResult aggregates the regions detected on one sheet.
type DetectionResult struct {
	Regions []TableRegion `json:"regions"`
	// NeedsAI is set when the fallback detector should be consulted.
	NeedsAI bool `json:"needsAI"`
	// Confidence is the mean confidence of Regions, or 0.
	Confidence float64 `json:"confidence"`
}

// RegionHint is a best-effort region suggested by the fallback detector.
type RegionHint struct {
	RegionBounds
	TableType   TableType `json:"tableType"`
	Description string    `json:"description,omitempty"`
}
