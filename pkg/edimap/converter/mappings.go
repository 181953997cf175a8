package converter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
)

var dataTypePattern = regexp.MustCompile(`String|Number|Date|Code|Identifier`)

var requiredMarks = []string{"必須", "○", "●"}

// Mappings converts a mapping region. Rows need both an application field
// and an EDI field. Returns nil when no row qualifies.
func Mappings(in Input) (*models.MappingTable, error) {
	header, rows, err := in.split()
	if err != nil {
		return nil, err
	}
	cols := parser.ResolveColumns(header, parser.MappingRoles)

	var fields []models.MappingField
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		appField := cols.Cell(row, parser.RoleAppField)
		ediField := cols.Cell(row, parser.RoleEDIField)
		if appField == "" || ediField == "" {
			continue
		}

		fields = append(fields, models.MappingField{
			AppField:    appField,
			EDIField:    ediField,
			EDIID:       cols.Cell(row, parser.RoleEDIID),
			Required:    rowRequired(row),
			DataType:    rowDataType(row),
			Description: rowDescription(row),
		})
	}

	if len(fields) == 0 {
		return nil, nil
	}
	return &models.MappingTable{
		SheetName:   in.label(),
		MessageType: InferMessageType(in.SheetName),
		TableType:   in.Region.TableType,
		Region:      in.bounds(),
		Fields:      fields,
	}, nil
}

func rowRequired(row []models.CellValue) bool {
	for _, c := range row {
		s := c.String()
		for _, m := range requiredMarks {
			if strings.Contains(s, m) {
				return true
			}
		}
	}
	return false
}

func rowDataType(row []models.CellValue) string {
	for _, c := range row {
		if s := c.String(); dataTypePattern.MatchString(s) {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// rowDescription picks the first cell longer than ten characters that is not a mark.
func rowDescription(row []models.CellValue) string {
	for _, c := range row {
		s := c.String()
		if utf8.RuneCountInString(s) > 10 && !strings.Contains(s, "○") {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
