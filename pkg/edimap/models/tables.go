package models

// InformationItem is one row of an interoperability information-item table.
type InformationItem struct {
	RowNumber          string            `json:"rowNumber,omitempty"`
	HeaderDetail       string            `json:"headerDetail,omitempty"`
	ClID               string            `json:"clId,omitempty"`
	ItemName           string            `json:"itemName"`
	ItemDefinition     string            `json:"itemDefinition,omitempty"`
	Repetition         string            `json:"repetition,omitempty"`
	EstablishedRevised string            `json:"establishedRevised,omitempty"`
	CommonEDIMapping   *CommonEDIMapping `json:"commonEdiMapping,omitempty"`
	Reference          *ItemReference    `json:"reference,omitempty"`
}

// CommonEDIMapping records which industry profiles use an information item.
type CommonEDIMapping struct {
	CommonCore    string `json:"commonCore,omitempty"`
	Manufacturing string `json:"manufacturing,omitempty"`
	Construction  string `json:"construction,omitempty"`
	Distribution  string `json:"distribution,omitempty"`
}

// ItemReference holds reference annotations for an information item.
type ItemReference struct {
	InvoiceCompatible string `json:"invoiceCompatible,omitempty"`
}

// InformationItemTable is the typed output of one information-item region.
type InformationItemTable struct {
	// SheetName is the source sheet name suffixed with the table type.
	SheetName string `json:"sheetName"`
	// MessageType is the inferred message type of the sheet.
	MessageType string `json:"messageType"`
	// TableType is the classified type of the source region.
	TableType TableType `json:"tableType,omitempty"`
	// Region is the source region bounds.
	Region *RegionBounds `json:"region,omitempty"`
	// Items are the extracted records in sheet order.
	Items []InformationItem `json:"items"`
}

// MappingField is one row of a mapping table.
type MappingField struct {
	// AppField is the dot path in the application document.
	AppField string `json:"appField"`
	// EDIField is the dot path in the EDI standard document.
	EDIField string `json:"ediField"`
	// EDIID is the standard's information item ID, when the sheet has one.
	EDIID string `json:"ediId,omitempty"`
	// Required is set when the row is marked mandatory.
	Required bool `json:"required"`
	// DataType is the data type text as written in the sheet.
	DataType string `json:"dataType,omitempty"`
	// Description is the row's remarks.
	Description string `json:"description,omitempty"`
}

// MappingTable is the typed output of one mapping region.
type MappingTable struct {
	// SheetName is the source sheet name suffixed with the table type.
	SheetName string `json:"sheetName"`
	// MessageType is the inferred message type of the sheet.
	MessageType string `json:"messageType"`
	// TableType is the classified type of the source region.
	TableType TableType `json:"tableType,omitempty"`
	// Region is the source region bounds.
	Region *RegionBounds `json:"region,omitempty"`
	// Fields are the mapping rows in sheet order.
	Fields []MappingField `json:"fields"`
}

// FieldMappings converts the table rows into mapping rules.
func (t *MappingTable) FieldMappings() []FieldMapping {
	rules := make([]FieldMapping, 0, len(t.Fields))
	for _, f := range t.Fields {
		rules = append(rules, FieldMapping{
			AppField: f.AppField,
			EDIField: f.EDIField,
			EDIID:    f.EDIID,
			Required: f.Required,
		})
	}
	return rules
}

// CodeValue is one entry of a code definition table.
type CodeValue struct {
	Code                  string `json:"code"`
	CodeName              string `json:"codeName"`
	CodeNameEn            string `json:"codeNameEn,omitempty"`
	Description           string `json:"description,omitempty"`
	InternationalCode     string `json:"internationalCode,omitempty"`
	InternationalCodeName string `json:"internationalCodeName,omitempty"`
	Category              string `json:"category,omitempty"`
}

// CodeDefinition is the typed output of one code definition region.
type CodeDefinition struct {
	// CodeType names the code list, derived from the sheet and region.
	CodeType string `json:"codeType"`
	// SheetName is the source sheet name followed by the table type.
	SheetName string `json:"sheetName"`
	// TableType is the classified type of the source region.
	TableType TableType `json:"tableType,omitempty"`
	// Region is the source region bounds.
	Region *RegionBounds `json:"region,omitempty"`
	// Codes are the code entries in sheet order.
	Codes []CodeValue `json:"codes"`
}
