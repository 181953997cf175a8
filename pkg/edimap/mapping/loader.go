package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a mapping config from a .yaml, .yml or .json file.
func LoadConfigFile(path string) (*models.MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseConfigYAML(data)
	case ".json":
		return ParseConfigJSON(data)
	default:
		return nil, fmt.Errorf("unsupported mapping config extension %q", filepath.Ext(path))
	}
}

// ParseConfigYAML decodes a YAML mapping config.
func ParseConfigYAML(data []byte) (*models.MappingConfig, error) {
	var cfg models.MappingConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode mapping config: %w", err)
	}
	return finishConfig(&cfg)
}

// ParseConfigJSON decodes a JSON mapping config.
func ParseConfigJSON(data []byte) (*models.MappingConfig, error) {
	var cfg models.MappingConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode mapping config: %w", err)
	}
	return finishConfig(&cfg)
}

func finishConfig(cfg *models.MappingConfig) (*models.MappingConfig, error) {
	if cfg.FormatType == "" {
		cfg.FormatType = models.FormatJSON
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig checks that every rule names both fields and a known data type.
func ValidateConfig(cfg *models.MappingConfig) error {
	if cfg.MessageType != "" && !cfg.MessageType.Valid() {
		return fmt.Errorf("unknown message type %q", cfg.MessageType)
	}
	switch cfg.FormatType {
	case models.FormatJSON, models.FormatXML, models.FormatCSV:
	default:
		return fmt.Errorf("unknown format type %q", cfg.FormatType)
	}
	for i, fm := range cfg.FieldMappings {
		if fm.AppField == "" || fm.EDIField == "" {
			return fmt.Errorf("field mapping %d: appField and ediField are required", i)
		}
		switch fm.DataType {
		case "", models.DataTypeString, models.DataTypeNumber, models.DataTypeDate,
			models.DataTypeDateTime, models.DataTypeBoolean, models.DataTypeCode:
		default:
			return fmt.Errorf("field mapping %d: %w %q", i, ErrUnsupportedDataType, fm.DataType)
		}
		if fm.Condition != "" {
			if _, err := ParseCondition(fm.Condition); err != nil {
				return fmt.Errorf("field mapping %d: %w", i, err)
			}
		}
	}
	return nil
}
