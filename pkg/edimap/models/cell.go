// Package models defines data structures for EDI table ingestion and message mapping.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CellKind tags the value held by a CellValue.
type CellKind uint8

const (
	// CellEmpty is a cell with no value.
	CellEmpty CellKind = iota
	// CellString is a textual cell.
	CellString
	// CellNumber is a numeric cell.
	CellNumber
)

// CellValue is a single spreadsheet cell decided at the grid boundary.
// The zero value is an empty cell.
type CellValue struct {
	Kind CellKind
	Str  string
	Num  float64
}

// StringCell returns a textual cell. An empty string yields an empty cell.
func StringCell(s string) CellValue {
	if s == "" {
		return CellValue{}
	}
	return CellValue{Kind: CellString, Str: s}
}

// NumberCell returns a numeric cell.
func NumberCell(n float64) CellValue {
	return CellValue{Kind: CellNumber, Num: n}
}

// IsBlank reports whether the cell is empty or whitespace only.
func (c CellValue) IsBlank() bool {
	switch c.Kind {
	case CellString:
		return strings.TrimSpace(c.Str) == ""
	case CellNumber:
		return false
	default:
		return true
	}
}

// IsString reports whether the cell holds text.
func (c CellValue) IsString() bool {
	return c.Kind == CellString
}

// String returns the cell text. Numbers are rendered without trailing zeros.
func (c CellValue) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Trimmed returns the cell text with surrounding whitespace removed.
func (c CellValue) Trimmed() string {
	return strings.TrimSpace(c.String())
}

// MarshalJSON encodes strings and numbers natively and empty cells as "".
func (c CellValue) MarshalJSON() ([]byte, error) {
	if c.Kind == CellNumber {
		return json.Marshal(c.Num)
	}
	return json.Marshal(c.String())
}
