package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// Catalog indexes the tables of a data tree. It is read-only after loading.
type Catalog struct {
	mappings         map[string][]models.MappingTable
	informationItems map[string][]models.InformationItemTable
	codes            map[string][]models.CodeDefinition
}

// LoadCatalog reads dir/mappings, dir/information-items and
// dir/code-definitions. Missing directories are treated as empty;
// unreadable documents are logged and skipped.
func LoadCatalog(dir string, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Catalog{
		mappings:         make(map[string][]models.MappingTable),
		informationItems: make(map[string][]models.InformationItemTable),
		codes:            make(map[string][]models.CodeDefinition),
	}

	err := loadDir(filepath.Join(dir, MappingsDir), MappingsAggregate, log, func(t models.MappingTable) {
		c.mappings[t.MessageType] = append(c.mappings[t.MessageType], t)
	})
	if err != nil {
		return nil, err
	}
	err = loadDir(filepath.Join(dir, InformationItemsDir), InformationItemsAggregate, log, func(t models.InformationItemTable) {
		c.informationItems[t.MessageType] = append(c.informationItems[t.MessageType], t)
	})
	if err != nil {
		return nil, err
	}
	err = loadDir(filepath.Join(dir, CodeDefinitionsDir), CodeDefinitionsAggregate, log, func(d models.CodeDefinition) {
		c.codes[d.CodeType] = append(c.codes[d.CodeType], d)
	})
	if err != nil {
		return nil, err
	}

	log.Info("catalog loaded",
		"mappings", len(c.mappings),
		"informationItems", len(c.informationItems),
		"codeTypes", len(c.codes),
	)
	return c, nil
}

func loadDir[T any](dir, aggregate string, log *slog.Logger, add func(T)) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == aggregate {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("failed to read table", "file", name, "error", err)
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			log.Warn("failed to parse table", "file", name, "error", err)
			continue
		}
		add(v)
	}
	return nil
}

// FindTablesForMessageType returns all mapping tables for a message type in file order.
func (c *Catalog) FindTablesForMessageType(messageType string) []models.MappingTable {
	return c.mappings[messageType]
}

// Mapping returns the preferred mapping table for a message type: the first
// of type "mapping", else the first table, else nil.
func (c *Catalog) Mapping(messageType string) *models.MappingTable {
	tables := c.mappings[messageType]
	for i := range tables {
		if tables[i].TableType == models.TableMapping {
			return &tables[i]
		}
	}
	if len(tables) > 0 {
		return &tables[0]
	}
	return nil
}

// InformationItems returns the information-item tables of a message type.
func (c *Catalog) InformationItems(messageType string) []models.InformationItemTable {
	return c.informationItems[messageType]
}

// CodeDefinitions returns the definitions loaded for a code type.
func (c *Catalog) CodeDefinitions(codeType string) []models.CodeDefinition {
	return c.codes[codeType]
}

// FindCode looks up a code value by code type and code.
func (c *Catalog) FindCode(codeType, code string) (models.CodeValue, bool) {
	for _, def := range c.codes[codeType] {
		for _, v := range def.Codes {
			if v.Code == code {
				return v, true
			}
		}
	}
	return models.CodeValue{}, false
}

// MessageTypes lists message types with at least one mapping or information-item table.
func (c *Catalog) MessageTypes() []string {
	seen := make(map[string]bool)
	for mt := range c.mappings {
		seen[mt] = true
	}
	for mt := range c.informationItems {
		seen[mt] = true
	}
	types := make([]string, 0, len(seen))
	for mt := range seen {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}
