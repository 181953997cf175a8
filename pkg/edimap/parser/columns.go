package parser

import (
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// Role names a semantic column and the header phrases that identify it.
type Role struct {
	Name     string
	Keywords []string
	// Fallback is the column used when no header matches, or -1.
	Fallback int
}

// RoleSet is an ordered list of roles resolved against one header row.
type RoleSet []Role

// Columns maps role names to column indexes relative to the table.
type Columns map[string]int

// Index returns the column of role, or -1 when unresolved.
func (c Columns) Index(role string) int {
	if i, ok := c[role]; ok {
		return i
	}
	return -1
}

// Cell returns the trimmed text of row at role's column, or "".
func (c Columns) Cell(row []models.CellValue, role string) string {
	i := c.Index(role)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i].Trimmed()
}

// Has reports whether role resolved to a column.
func (c Columns) Has(role string) bool {
	return c.Index(role) >= 0
}

// Role names used by the converters.
const (
	RoleRowNumber          = "rowNumber"
	RoleHeaderDetail       = "headerDetail"
	RoleClID               = "clId"
	RoleItemName           = "itemName"
	RoleItemDefinition     = "itemDefinition"
	RoleRepetition         = "repetition"
	RoleEstablishedRevised = "establishedRevised"
	RoleCommonCore         = "commonCore"
	RoleManufacturing      = "manufacturing"
	RoleConstruction       = "construction"
	RoleDistribution       = "distribution"
	RoleInvoiceCompatible  = "invoiceCompatible"

	RoleCode              = "code"
	RoleName              = "name"
	RoleNameEn            = "nameEn"
	RoleDescription       = "description"
	RoleInternationalCode = "internationalCode"
	RoleCategory          = "category"

	RoleAppField = "appField"
	RoleEDIField = "ediField"
	RoleEDIID    = "ediId"
)

// InformationItemRoles identifies the columns of an information-item table.
var InformationItemRoles = RoleSet{
	{Name: RoleRowNumber, Keywords: []string{"行番号", "Row"}, Fallback: -1},
	{Name: RoleHeaderDetail, Keywords: []string{"ヘッダ", "明細", "Header", "Detail"}, Fallback: -1},
	{Name: RoleClID, Keywords: []string{"CL/ID", "CLID", "ID"}, Fallback: -1},
	{Name: RoleItemName, Keywords: []string{"項目名", "Item Name", "Name"}, Fallback: 3},
	{Name: RoleItemDefinition, Keywords: []string{"項目定義", "Definition", "定義"}, Fallback: -1},
	{Name: RoleRepetition, Keywords: []string{"繰返し", "Repetition", "繰り返し"}, Fallback: -1},
	{Name: RoleEstablishedRevised, Keywords: []string{"制定", "改定", "Established", "Revised"}, Fallback: -1},
	{Name: RoleCommonCore, Keywords: []string{"中小共通コア", "Common Core"}, Fallback: -1},
	{Name: RoleManufacturing, Keywords: []string{"中小製造業", "Manufacturing"}, Fallback: -1},
	{Name: RoleConstruction, Keywords: []string{"中小建設業", "Construction"}, Fallback: -1},
	{Name: RoleDistribution, Keywords: []string{"中小流通業", "Distribution"}, Fallback: -1},
	{Name: RoleInvoiceCompatible, Keywords: []string{"インボイス対応", "Invoice Compatible"}, Fallback: -1},
}

// CodeDefinitionRoles identifies the columns of a code table.
// The international code name is the column right after internationalCode.
var CodeDefinitionRoles = RoleSet{
	{Name: RoleCode, Keywords: []string{"コード", "Code"}, Fallback: 0},
	{Name: RoleName, Keywords: []string{"名称", "Name", "コード名"}, Fallback: 1},
	{Name: RoleNameEn, Keywords: []string{"English", "英語"}, Fallback: -1},
	{Name: RoleDescription, Keywords: []string{"説明", "Description"}, Fallback: -1},
	{Name: RoleInternationalCode, Keywords: []string{"国際", "International"}, Fallback: -1},
	{Name: RoleCategory, Keywords: []string{"分類", "Category"}, Fallback: -1},
}

// MappingRoles identifies the columns of a mapping table. Mapping sheets
// carry no per-column labels, so every role is positional.
var MappingRoles = RoleSet{
	{Name: RoleAppField, Fallback: 0},
	{Name: RoleEDIField, Fallback: 1},
	{Name: RoleEDIID, Fallback: 2},
}

// ResolveColumns finds, for each role, the first header column whose text
// contains one of the role's keywords. Unmatched roles take their fallback.
func ResolveColumns(header []models.CellValue, roles RoleSet) Columns {
	cols := make(Columns, len(roles))
	for _, role := range roles {
		cols[role.Name] = findColumn(header, role.Keywords, role.Fallback)
	}
	return cols
}

func findColumn(header []models.CellValue, keywords []string, fallback int) int {
	for i, cell := range header {
		text := cell.String()
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return i
			}
		}
	}
	return fallback
}
