// Package converter turns detected table regions into typed EDI tables.
package converter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// ErrHeaderOutOfRange indicates the header row lies outside the extracted data.
var ErrHeaderOutOfRange = errors.New("header row outside table data")

// Keywords passed to the detector for each kind of workbook.
var (
	InformationItemKeywords = []string{
		"行番号", "ヘッダ", "明細行", "CL/ID", "項目名", "項目定義",
		"繰返し", "制定", "改定", "共通EDI", "マッピング",
		"国連CEFACT", "CEFACT", "BIE", "メッセージ辞書",
		"データ型", "コード表", "補足情報",
	}
	MappingKeywords        = []string{"業務アプリ", "共通EDI", "マッピング", "情報項目"}
	CodeDefinitionKeywords = []string{"コード", "Code", "名称", "Name", "値", "説明"}
)

var skippedSheetMarkers = []string{"表紙", "改定履歴", "使い方"}

// IsSkippedSheet reports whether a sheet is a cover, revision history or usage guide.
func IsSkippedSheet(name string) bool {
	for _, m := range skippedSheetMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

var messageTypeMarkers = []struct {
	markers     []string
	messageType string
}{
	{[]string{"注文", "Order"}, "order"},
	{[]string{"請求", "Invoice"}, "invoice"},
	{[]string{"見積", "Quotation"}, "quotation"},
	{[]string{"出荷", "Shipment"}, "shipment"},
	{[]string{"仕入", "Purchase"}, "purchase"},
}

// InferMessageType guesses the message type from a sheet name.
// Unrecognized names yield the lowercased sheet name.
func InferMessageType(sheetName string) string {
	for _, m := range messageTypeMarkers {
		for _, marker := range m.markers {
			if strings.Contains(sheetName, marker) {
				return m.messageType
			}
		}
	}
	return strings.ToLower(sheetName)
}

var (
	unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	hyphenRun       = regexp.MustCompile(`-+`)
)

// SanitizeName makes a sheet name safe to use as a file name.
func SanitizeName(name string) string {
	s := unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CodeType derives the code type identifier of the index-th region of a sheet.
func CodeType(sheetName string, tableType models.TableType, index, regionCount int) string {
	base := SanitizeName(sheetName)
	switch {
	case base == "":
		return fmt.Sprintf("%s-table-%d", tableType, index)
	case regionCount > 1:
		return fmt.Sprintf("%s-%s-%d", base, tableType, index)
	default:
		return fmt.Sprintf("%s-%s", base, tableType)
	}
}

// Input is one region of a sheet together with its extracted cells.
type Input struct {
	SheetName string
	Region    models.TableRegion
	// Data is the region's cells as returned by parser.ExtractTableData.
	Data [][]models.CellValue
	// Index is the position of Region among the sheet's regions.
	Index int
	// RegionCount is the number of regions on the sheet.
	RegionCount int
}

// split returns the header row and the data rows below it.
func (in Input) split() ([]models.CellValue, [][]models.CellValue, error) {
	idx := in.Region.HeaderRow - in.Region.StartRow
	if idx < 0 || idx >= len(in.Data) {
		return nil, nil, fmt.Errorf("%w: index %d of %d rows", ErrHeaderOutOfRange, idx, len(in.Data))
	}
	return in.Data[idx], in.Data[idx+1:], nil
}

func (in Input) label() string {
	return fmt.Sprintf("%s (%s)", in.SheetName, in.Region.TableType)
}

func (in Input) bounds() *models.RegionBounds {
	b := in.Region.RegionBounds
	return &b
}

func blankRow(row []models.CellValue) bool {
	for _, c := range row {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
