package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
)

func input(sheet string, tableType models.TableType, rows [][]string) Input {
	grid := parser.GridFromStrings(rows)
	region := models.TableRegion{
		RegionBounds: models.RegionBounds{StartRow: 0, EndRow: grid.Height() - 1, StartCol: 0, EndCol: grid.Width() - 1},
		HeaderRow:    0,
		TableType:    tableType,
		Confidence:   0.9,
	}
	return Input{
		SheetName:   sheet,
		Region:      region,
		Data:        parser.ExtractTableData(grid, region.RegionBounds),
		RegionCount: 1,
	}
}

func TestInferMessageType(t *testing.T) {
	tests := []struct {
		sheet    string
		expected string
	}{
		{"注文情報", "order"},
		{"Purchase Order", "order"},
		{"請求", "invoice"},
		{"見積依頼", "quotation"},
		{"出荷案内", "shipment"},
		{"仕入明細", "purchase"},
		{"Remittance", "remittance"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, InferMessageType(tt.sheet), tt.sheet)
	}
}

func TestIsSkippedSheet(t *testing.T) {
	assert.True(t, IsSkippedSheet("表紙"))
	assert.True(t, IsSkippedSheet("改定履歴(2023)"))
	assert.True(t, IsSkippedSheet("使い方"))
	assert.False(t, IsSkippedSheet("注文"))
}

func TestCodeType(t *testing.T) {
	tests := []struct {
		sheet    string
		index    int
		count    int
		expected string
	}{
		{"通貨 コード", 0, 1, "通貨-コード-code-definition"},
		{"  a / b  ", 0, 1, "a-b-code-definition"},
		{"単位", 2, 3, "単位-code-definition-2"},
		{"***", 1, 2, "code-definition-table-1"},
		{" - ", 0, 1, "code-definition-table-0"},
	}

	for _, tt := range tests {
		got := CodeType(tt.sheet, models.TableCodeDefinition, tt.index, tt.count)
		assert.Equal(t, tt.expected, got, tt.sheet)
	}
}

func TestInformationItems(t *testing.T) {
	in := input("注文", models.TableInformationItems, [][]string{
		{"行番号", "ヘッダ/明細", "CL/ID", "項目名", "項目定義", "中小共通コア", "インボイス対応"},
		{"1", "H", "CL1", "注文番号", "注文を識別する番号", "○", "○"},
		{"", "", "", "", "", "", ""},
		{"2", "H", "CL2", "", "名前なし", "", ""},
		{"3", "D", "ID3", "数量", "", "", ""},
	})

	table, err := InformationItems(in)
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, "注文 (information-items)", table.SheetName)
	assert.Equal(t, "order", table.MessageType)
	assert.Equal(t, models.TableInformationItems, table.TableType)
	require.Len(t, table.Items, 2)

	first := table.Items[0]
	assert.Equal(t, "1", first.RowNumber)
	assert.Equal(t, "CL1", first.ClID)
	assert.Equal(t, "注文番号", first.ItemName)
	assert.Equal(t, "注文を識別する番号", first.ItemDefinition)
	require.NotNil(t, first.CommonEDIMapping)
	assert.Equal(t, "○", first.CommonEDIMapping.CommonCore)
	require.NotNil(t, first.Reference)
	assert.Equal(t, "○", first.Reference.InvoiceCompatible)

	assert.Equal(t, "数量", table.Items[1].ItemName)
}

func TestInformationItemsHeaderOutOfRange(t *testing.T) {
	in := input("注文", models.TableInformationItems, [][]string{{"項目名"}, {"x"}})
	in.Region.HeaderRow = 5

	table, err := InformationItems(in)
	assert.ErrorIs(t, err, ErrHeaderOutOfRange)
	assert.Nil(t, table)
}

func TestMappings(t *testing.T) {
	in := input("請求", models.TableMapping, [][]string{
		{"業務アプリ", "共通EDI", "情報項目ID", "必須", "型", "備考"},
		{"invoice.no", "ExchangedDocument.ID", "IID001", "必須", "Identifier", "請求書を一意に識別する番号"},
		{"invoice.memo", "Note.Content", "", "", "String", ""},
		{"", "Orphan.Field", "", "", "", ""},
	})

	table, err := Mappings(in)
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, "invoice", table.MessageType)
	require.Len(t, table.Fields, 2)

	first := table.Fields[0]
	assert.Equal(t, "invoice.no", first.AppField)
	assert.Equal(t, "ExchangedDocument.ID", first.EDIField)
	assert.Equal(t, "IID001", first.EDIID)
	assert.True(t, first.Required)
	assert.Equal(t, "Identifier", first.DataType)
	assert.Equal(t, "ExchangedDocument.ID", first.Description)

	second := table.Fields[1]
	assert.False(t, second.Required)
	assert.Equal(t, "String", second.DataType)
	assert.Empty(t, second.EDIID)
}

func TestMappingsNoRecords(t *testing.T) {
	in := input("請求", models.TableMapping, [][]string{
		{"業務アプリ", "共通EDI", "x"},
		{"only-app", "", ""},
	})

	table, err := Mappings(in)
	require.NoError(t, err)
	assert.Nil(t, table)
}

func TestCodeDefinitions(t *testing.T) {
	in := input("通貨コード", models.TableCodeDefinition, [][]string{
		{"コード", "名称", "英語名称", "国際コード", "国際名称", "分類"},
		{"JPY", "日本円", "Yen", "392", "Japanese yen", "通貨"},
		{"USD", "", "Dollar", "", "", ""},
		{"EUR", "ユーロ", "Euro", "978", "", ""},
	})

	def, err := CodeDefinitions(in)
	require.NoError(t, err)
	require.NotNil(t, def)

	assert.Equal(t, "通貨コード-code-definition", def.CodeType)
	require.Len(t, def.Codes, 2)

	jpy := def.Codes[0]
	assert.Equal(t, "JPY", jpy.Code)
	assert.Equal(t, "日本円", jpy.CodeName)
	assert.Equal(t, "Yen", jpy.CodeNameEn)
	assert.Equal(t, "392", jpy.InternationalCode)
	assert.Equal(t, "Japanese yen", jpy.InternationalCodeName)
	assert.Equal(t, "通貨", jpy.Category)

	assert.Equal(t, "EUR", def.Codes[1].Code)
	assert.Empty(t, def.Codes[1].InternationalCodeName)
}
