package converter

import (
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
)

// CodeDefinitions converts a code table region. Rows need both a code and a
// name. Returns nil when no row qualifies.
func CodeDefinitions(in Input) (*models.CodeDefinition, error) {
	header, rows, err := in.split()
	if err != nil {
		return nil, err
	}
	cols := parser.ResolveColumns(header, parser.CodeDefinitionRoles)
	intl := cols.Index(parser.RoleInternationalCode)

	var codes []models.CodeValue
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		code := cols.Cell(row, parser.RoleCode)
		name := cols.Cell(row, parser.RoleName)
		if code == "" || name == "" {
			continue
		}

		value := models.CodeValue{
			Code:        code,
			CodeName:    name,
			CodeNameEn:  cols.Cell(row, parser.RoleNameEn),
			Description: cols.Cell(row, parser.RoleDescription),
			Category:    cols.Cell(row, parser.RoleCategory),
		}
		if intl >= 0 {
			value.InternationalCode = cols.Cell(row, parser.RoleInternationalCode)
			if intl+1 < len(row) {
				value.InternationalCodeName = row[intl+1].Trimmed()
			}
		}
		codes = append(codes, value)
	}

	if len(codes) == 0 {
		return nil, nil
	}
	return &models.CodeDefinition{
		CodeType:  CodeType(in.SheetName, in.Region.TableType, in.Index, in.RegionCount),
		SheetName: in.label(),
		TableType: in.Region.TableType,
		Region:    in.bounds(),
		Codes:     codes,
	}, nil
}
