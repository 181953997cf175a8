package converter

import (
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
)

// InformationItems converts an information-item region.
// Rows without an item name are skipped. Returns nil when no row qualifies.
func InformationItems(in Input) (*models.InformationItemTable, error) {
	header, rows, err := in.split()
	if err != nil {
		return nil, err
	}
	cols := parser.ResolveColumns(header, parser.InformationItemRoles)

	var items []models.InformationItem
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		name := cols.Cell(row, parser.RoleItemName)
		if name == "" {
			continue
		}

		item := models.InformationItem{
			ItemName:           name,
			RowNumber:          cols.Cell(row, parser.RoleRowNumber),
			HeaderDetail:       cols.Cell(row, parser.RoleHeaderDetail),
			ClID:               cols.Cell(row, parser.RoleClID),
			ItemDefinition:     cols.Cell(row, parser.RoleItemDefinition),
			Repetition:         cols.Cell(row, parser.RoleRepetition),
			EstablishedRevised: cols.Cell(row, parser.RoleEstablishedRevised),
		}
		if cols.Has(parser.RoleCommonCore) || cols.Has(parser.RoleManufacturing) ||
			cols.Has(parser.RoleConstruction) || cols.Has(parser.RoleDistribution) {
			item.CommonEDIMapping = &models.CommonEDIMapping{
				CommonCore:    cols.Cell(row, parser.RoleCommonCore),
				Manufacturing: cols.Cell(row, parser.RoleManufacturing),
				Construction:  cols.Cell(row, parser.RoleConstruction),
				Distribution:  cols.Cell(row, parser.RoleDistribution),
			}
		}
		if cols.Has(parser.RoleInvoiceCompatible) {
			item.Reference = &models.ItemReference{
				InvoiceCompatible: cols.Cell(row, parser.RoleInvoiceCompatible),
			}
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, nil
	}
	return &models.InformationItemTable{
		SheetName:   in.label(),
		MessageType: InferMessageType(in.SheetName),
		TableType:   in.Region.TableType,
		Region:      in.bounds(),
		Items:       items,
	}, nil
}
