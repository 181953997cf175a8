package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/edimap-go/pkg/edimap/mapping"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/output"
	"github.com/ukaji3/edimap-go/pkg/edimap/xmlconv"
)

var (
	mapMessageType string
	mapConfigPath  string
	mapDataDir     string
	mapOutputPath  string
	mapReverse     bool
	mapXML         bool
	mapPretty      bool
)

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map [input.json|input.xml|-]",
		Short: "Map application data to the EDI structure, or back with --reverse",
		Long: `map applies a mapping config, or the standard mapping table of the message
type, to a JSON document. With --xml the mapped document is rendered as
SME common EDI XML. With --reverse an EDI document (JSON or XML) is mapped
back to the application structure.`,
		Args: cobra.ExactArgs(1),
		RunE: runMap,
	}

	cmd.Flags().StringVarP(&mapMessageType, "message-type", "t", "", "Message type, e.g. order, invoice")
	cmd.Flags().StringVarP(&mapConfigPath, "config-file", "c", "", "Mapping config file (YAML or JSON)")
	cmd.Flags().StringVar(&mapDataDir, "data-dir", "", "Extracted table directory (default: EDIMAP_DATA_DIR)")
	cmd.Flags().StringVarP(&mapOutputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVarP(&mapReverse, "reverse", "r", false, "Map EDI data back to the application structure")
	cmd.Flags().BoolVar(&mapXML, "xml", false, "Render the mapped document as XML")
	cmd.Flags().BoolVar(&mapPretty, "pretty", false, "Pretty-print JSON output")

	return cmd
}

func runMap(cmd *cobra.Command, args []string) error {
	req := mapping.Request{MessageType: models.MessageType(mapMessageType)}
	if mapConfigPath != "" {
		mc, err := mapping.LoadConfigFile(mapConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load mapping config: %w", err)
		}
		req.Config = mc
		if req.MessageType == "" {
			req.MessageType = mc.MessageType
		}
	}
	if !req.MessageType.Valid() {
		return fmt.Errorf("invalid message type: %q", req.MessageType)
	}

	resolver := &mapping.Resolver{Mapper: mapping.NewMapper(logger), Log: logger}
	if req.Config == nil {
		dir := mapDataDir
		if dir == "" {
			dir = cfg.Ingest.DataDir
		}
		catalog, err := output.LoadCatalog(dir, logger)
		if err != nil {
			return fmt.Errorf("failed to load tables: %w", err)
		}
		resolver.Tables = catalog
	}

	data, err := readDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var out []byte
	if mapReverse {
		result, err := resolver.FromEDI(cmd.Context(), data, req)
		if err != nil {
			return fmt.Errorf("mapping failed: %w", err)
		}
		out, err = output.ToJSON(result, mapPretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
	} else {
		result, err := resolver.ToEDI(cmd.Context(), data, req)
		if err != nil {
			return fmt.Errorf("mapping failed: %w", err)
		}
		if out, err = renderEDI(result, req.MessageType); err != nil {
			return err
		}
	}

	if mapOutputPath != "" {
		if err := os.WriteFile(mapOutputPath, out, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(strings.TrimRight(string(out), "\n"))
	return nil
}

func renderEDI(data map[string]any, mt models.MessageType) ([]byte, error) {
	if !mapXML {
		out, err := output.ToJSON(data, mapPretty)
		if err != nil {
			return nil, fmt.Errorf("serialization failed: %w", err)
		}
		return out, nil
	}

	doc, err := xmlconv.ToXML(data, mt)
	if err != nil {
		return nil, fmt.Errorf("XML conversion failed: %w", err)
	}
	if res := xmlconv.Validate(doc, mt); !res.Valid {
		for _, e := range res.Errors {
			logger.Warn("XML validation", "error", e)
		}
	}
	return []byte(doc), nil
}

// readDocument reads a JSON object, or an XML document when the path ends
// in .xml or the content starts with '<'. "-" reads stdin.
func readDocument(path string) (map[string]any, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.EqualFold(filepath.Ext(path), ".xml") || strings.HasPrefix(trimmed, "<") {
		return xmlconv.FromXML(trimmed)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return data, nil
}
