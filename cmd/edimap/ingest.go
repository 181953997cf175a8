package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/edimap-go/pkg/edimap"
	"github.com/ukaji3/edimap-go/pkg/edimap/aidetect"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/output"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
)

var (
	ingestKind      string
	ingestOutDir    string
	ingestReport    string
	ingestPretty    bool
	ingestAI        bool
	ingestNoPrint   bool
	ingestKeywords  []string
	ingestRegions   []string
	ingestThreshold float64
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [input.xlsx]",
		Short: "Detect tables in a workbook and write them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().StringVarP(&ingestKind, "kind", "k", "", "Workbook kind: information-items, mapping, code-definitions (required)")
	cmd.Flags().StringVarP(&ingestOutDir, "out-dir", "o", "", "Output directory (default: <data dir>/<kind>)")
	cmd.Flags().StringVar(&ingestReport, "report", "", "Write the per-sheet detection report to this file (\"-\" for stdout)")
	cmd.Flags().BoolVar(&ingestPretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&ingestAI, "ai", false, "Ask the AI suggester about low-confidence sheets (overrides EDIMAP_AI_ENABLED)")
	cmd.Flags().BoolVar(&ingestNoPrint, "no-print-areas", false, "Do not pass print areas to the AI suggester")
	cmd.Flags().StringSliceVar(&ingestKeywords, "keywords", nil, "Extra header keywords")
	cmd.Flags().StringArrayVar(&ingestRegions, "region", nil, "Manual region, e.g. 'Sheet 1'!A3:K40 (repeatable)")
	cmd.Flags().Float64Var(&ingestThreshold, "threshold", -1, "Confidence below which the AI suggester is consulted")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	kind, err := edimap.ParseKind(ingestKind)
	if err != nil {
		return err
	}

	opts := edimap.DefaultOptions(kind)
	opts.Logger = logger
	opts.Keywords = append(append([]string{}, cfg.Ingest.Keywords...), ingestKeywords...)
	opts.UsePrintAreas = !ingestNoPrint
	opts.Params.NeedsAIThreshold = cfg.Ingest.NeedsAIThreshold
	if ingestThreshold >= 0 {
		opts.Params.NeedsAIThreshold = ingestThreshold
	}

	if ingestAI || cfg.Ingest.AIEnabled {
		if cfg.OpenAI.APIKey == "" {
			logger.Warn("AI suggester requested but OPENAI_API_KEY is not set")
		} else {
			opts.Suggester = aidetect.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger).WithTimeout(cfg.OpenAI.Timeout)
		}
	}

	if opts.Regions, err = parseRegions(ingestRegions); err != nil {
		return err
	}

	wb, err := edimap.Ingest(cmd.Context(), inputPath, opts)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	outDir := ingestOutDir
	if outDir == "" {
		outDir = filepath.Join(cfg.Ingest.DataDir, kindDir(kind))
	}
	written, err := output.WriteTables(outDir, wb, ingestPretty)
	if err != nil {
		return fmt.Errorf("failed to write tables: %w", err)
	}

	if ingestReport != "" {
		if err := writeReport(wb, ingestReport); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	logger.Info("ingestion complete",
		"book", wb.BookName,
		"sheets", len(wb.Sheets),
		"tables", wb.TableCount(),
		"files", len(written),
		"out_dir", outDir,
	)
	return nil
}

// parseRegions groups sheet-qualified ranges by sheet.
func parseRegions(specs []string) (map[string][]models.RegionBounds, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	regions := make(map[string][]models.RegionBounds)
	for _, s := range specs {
		sheet, bounds := parser.ParseRangeReference(s)
		if sheet == "" || len(bounds) == 0 {
			return nil, fmt.Errorf("invalid region %q (want Sheet!A1:D10)", s)
		}
		regions[sheet] = append(regions[sheet], bounds...)
	}
	return regions, nil
}

// kindDir is the data tree subdirectory read back by the catalog.
func kindDir(kind edimap.Kind) string {
	switch kind {
	case edimap.KindMapping:
		return output.MappingsDir
	case edimap.KindCodeDefinitions:
		return output.CodeDefinitionsDir
	default:
		return output.InformationItemsDir
	}
}

func writeReport(wb *models.WorkbookData, path string) error {
	report := struct {
		BookName string             `json:"book_name"`
		Sheets   []models.SheetData `json:"sheets"`
	}{wb.BookName, wb.Sheets}
	data, err := output.ToJSON(report, ingestPretty)
	if err != nil {
		return err
	}
	if path == "-" {
		fmt.Println(strings.TrimRight(string(data), "\n"))
		return nil
	}
	return os.WriteFile(path, data, 0644)
}
