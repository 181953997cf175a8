package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// Directory and aggregate file names of a data tree.
const (
	MappingsDir         = "mappings"
	CodeDefinitionsDir  = "code-definitions"
	InformationItemsDir = "information-items"

	MappingsAggregate         = "mappings.json"
	CodeDefinitionsAggregate  = "code-definitions.json"
	InformationItemsAggregate = "information-items.json"
)

// Writer writes per-table documents and one aggregate per table category.
type Writer struct {
	Dir    string
	Pretty bool

	used map[string]int
}

// WriteTables writes every table of wb into dir and returns the written paths.
// Categories with no tables produce no files.
func WriteTables(dir string, wb *models.WorkbookData, pretty bool) ([]string, error) {
	w := &Writer{Dir: dir, Pretty: pretty}
	return w.Write(wb)
}

// Write implements WriteTables.
func (w *Writer) Write(wb *models.WorkbookData) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, err
	}
	w.used = make(map[string]int)

	var written []string
	write := func(name string, v any) error {
		path, err := w.writeFile(name, v)
		if err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	for i := range wb.InformationItems {
		t := &wb.InformationItems[i]
		if err := write(fmt.Sprintf("%s-%s-info-items", t.MessageType, t.TableType), t); err != nil {
			return written, err
		}
	}
	if len(wb.InformationItems) > 0 {
		if err := write(InformationItemsAggregate, wb.InformationItems); err != nil {
			return written, err
		}
	}

	for i := range wb.Mappings {
		t := &wb.Mappings[i]
		if err := write(fmt.Sprintf("%s-%s-mapping", t.MessageType, t.TableType), t); err != nil {
			return written, err
		}
	}
	if len(wb.Mappings) > 0 {
		if err := write(MappingsAggregate, wb.Mappings); err != nil {
			return written, err
		}
	}

	for i := range wb.CodeDefinitions {
		d := &wb.CodeDefinitions[i]
		if err := write(d.CodeType, d); err != nil {
			return written, err
		}
	}
	if len(wb.CodeDefinitions) > 0 {
		if err := write(CodeDefinitionsAggregate, wb.CodeDefinitions); err != nil {
			return written, err
		}
	}

	return written, nil
}

// writeFile writes v as name (".json" appended unless present). A name
// repeated within one run gets a numeric suffix.
func (w *Writer) writeFile(name string, v any) (string, error) {
	if filepath.Ext(name) != ".json" {
		w.used[name]++
		if n := w.used[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		name += ".json"
	}

	data, err := ToJSON(v, w.Pretty)
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", name, err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
