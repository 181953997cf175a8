package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/xuri/excelize/v2"
)

// ExtractPrintAreas reads the print areas defined in a workbook.
// Returns a map of sheet name to 0-based bounds.
func ExtractPrintAreas(f *excelize.File) map[string][]models.RegionBounds {
	result := make(map[string][]models.RegionBounds)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := ParseRangeReference(dn.RefersTo)
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// ParseRangeReference parses a sheet-qualified range list.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!A1:D10,SheetName!F1:H5
func ParseRangeReference(ref string) (string, []models.RegionBounds) {
	var areas []models.RegionBounds
	var sheetName string

	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.Trim(part[:idx], "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if bounds, ok := parseRangeToBounds(part[idx+1:]); ok {
			areas = append(areas, bounds)
		}
	}

	return sheetName, areas
}

// ParseRange parses an A1 range such as "B2:F40" into 0-based bounds.
func ParseRange(rangeStr string) (models.RegionBounds, error) {
	bounds, ok := parseRangeToBounds(rangeStr)
	if !ok {
		return models.RegionBounds{}, fmt.Errorf("invalid range %q", rangeStr)
	}
	return bounds, nil
}

// parseRangeToBounds parses $A$1:$D$10 style ranges. Corners may be given
// in any order.
func parseRangeToBounds(rangeStr string) (models.RegionBounds, bool) {
	rangeStr = strings.ReplaceAll(strings.TrimSpace(rangeStr), "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return models.RegionBounds{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.RegionBounds{}, false
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.RegionBounds{}, false
	}

	return models.RegionBounds{
		StartRow: min(startRow, endRow) - 1,
		EndRow:   max(startRow, endRow) - 1,
		StartCol: min(startCol, endCol) - 1,
		EndCol:   max(startCol, endCol) - 1,
	}, true
}
