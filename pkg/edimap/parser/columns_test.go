package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

func header(texts ...string) []models.CellValue {
	row := make([]models.CellValue, len(texts))
	for i, s := range texts {
		row[i] = models.StringCell(s)
	}
	return row
}

func TestResolveColumnsInformationItems(t *testing.T) {
	cols := ResolveColumns(header("行番号", "ヘッダ/明細", "CL/ID", "項目名", "項目定義", "繰返し", "制定/改定", "中小共通コア"), InformationItemRoles)

	assert.Equal(t, 0, cols.Index(RoleRowNumber))
	assert.Equal(t, 1, cols.Index(RoleHeaderDetail))
	assert.Equal(t, 2, cols.Index(RoleClID))
	assert.Equal(t, 3, cols.Index(RoleItemName))
	assert.Equal(t, 4, cols.Index(RoleItemDefinition))
	assert.Equal(t, 5, cols.Index(RoleRepetition))
	assert.Equal(t, 6, cols.Index(RoleEstablishedRevised))
	assert.Equal(t, 7, cols.Index(RoleCommonCore))
	assert.Equal(t, -1, cols.Index(RoleManufacturing))
	assert.False(t, cols.Has(RoleInvoiceCompatible))
}

func TestResolveColumnsFallbacks(t *testing.T) {
	cols := ResolveColumns(header("a", "b", "c", "d"), InformationItemRoles)
	assert.Equal(t, 3, cols.Index(RoleItemName))
	assert.Equal(t, -1, cols.Index(RoleRowNumber))

	cols = ResolveColumns(header("区分", "内容"), CodeDefinitionRoles)
	assert.Equal(t, 0, cols.Index(RoleCode))
	assert.Equal(t, 1, cols.Index(RoleName))

	cols = ResolveColumns(nil, MappingRoles)
	assert.Equal(t, 0, cols.Index(RoleAppField))
	assert.Equal(t, 1, cols.Index(RoleEDIField))
	assert.Equal(t, 2, cols.Index(RoleEDIID))
}

func TestResolveColumnsFirstMatchWins(t *testing.T) {
	cols := ResolveColumns(header("分類", "コード", "コード名", "English Name", "国際コード", "国際名称"), CodeDefinitionRoles)

	assert.Equal(t, 1, cols.Index(RoleCode))
	assert.Equal(t, 2, cols.Index(RoleName))
	assert.Equal(t, 3, cols.Index(RoleNameEn))
	assert.Equal(t, 4, cols.Index(RoleInternationalCode))
	assert.Equal(t, 0, cols.Index(RoleCategory))
}

func TestColumnsCell(t *testing.T) {
	cols := Columns{"a": 0, "b": 5}
	row := header(" x ", "y")

	assert.Equal(t, "x", cols.Cell(row, "a"))
	assert.Empty(t, cols.Cell(row, "b"))
	assert.Empty(t, cols.Cell(row, "missing"))
}
