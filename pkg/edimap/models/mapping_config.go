package models

import "time"

// DataType is the target type of a field coercion.
type DataType string

const (
	DataTypeString   DataType = "string"
	DataTypeNumber   DataType = "number"
	DataTypeDate     DataType = "date"
	DataTypeDateTime DataType = "datetime"
	DataTypeBoolean  DataType = "boolean"
	DataTypeCode     DataType = "code"
)

// FormatType is the wire format an application exchanges.
type FormatType string

const (
	FormatJSON FormatType = "json"
	FormatXML  FormatType = "xml"
	FormatCSV  FormatType = "csv"
)

// FieldMapping is a single source-path to destination-path directive.
type FieldMapping struct {
	// AppField is the dot-delimited path in the application object.
	AppField string `json:"appField" yaml:"app_field"`
	// EDIField is the dot-delimited path in the EDI standard object.
	EDIField string `json:"ediField" yaml:"edi_field"`
	// EDIID is the identifier of the standard information item.
	EDIID string `json:"ediId,omitempty" yaml:"edi_id,omitempty"`
	// Required marks fields whose absence is reported or defaulted.
	Required bool `json:"required" yaml:"required"`
	// DefaultValue is written when a required field is absent.
	DefaultValue any `json:"defaultValue,omitempty" yaml:"default_value,omitempty"`
	// DataType requests coercion of the outbound value.
	DataType DataType `json:"dataType,omitempty" yaml:"data_type,omitempty"`
	// Transformation names a registered transformation.
	Transformation string `json:"transformation,omitempty" yaml:"transformation,omitempty"`
	// Condition is a single comparison evaluated against the source object.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	// Format is an optional Go time layout for date parsing.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MappingConfig is a per-application mapping for one message type.
type MappingConfig struct {
	ID            string         `json:"id" yaml:"id"`
	AppID         string         `json:"appId" yaml:"app_id"`
	AppName       string         `json:"appName" yaml:"app_name"`
	MessageType   MessageType    `json:"messageType" yaml:"message_type"`
	FieldMappings []FieldMapping `json:"fieldMappings" yaml:"field_mappings"`
	FormatType    FormatType     `json:"formatType" yaml:"format_type"`
	CreatedAt     time.Time      `json:"createdAt" yaml:"-"`
	UpdatedAt     time.Time      `json:"updatedAt" yaml:"-"`
}
