package models

// WorkbookData is the result of one ingestion run over a workbook.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets holds per-sheet detection reports in workbook order.
	Sheets []SheetData `json:"sheets"`
	// InformationItems are the information-item tables extracted in this run.
	InformationItems []InformationItemTable `json:"information_items,omitempty"`
	// Mappings are the mapping tables extracted in this run.
	Mappings []MappingTable `json:"mappings,omitempty"`
	// CodeDefinitions are the code definition tables extracted in this run.
	CodeDefinitions []CodeDefinition `json:"code_definitions,omitempty"`
}

// TableCount returns the number of typed tables extracted.
func (w *WorkbookData) TableCount() int {
	return len(w.InformationItems) + len(w.Mappings) + len(w.CodeDefinitions)
}
