package edimap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ukaji3/edimap-go/pkg/edimap/aidetect"
	"github.com/ukaji3/edimap-go/pkg/edimap/converter"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
	"github.com/xuri/excelize/v2"
)

// suggestedConfidence is assigned to regions proposed by the fallback detector.
const suggestedConfidence = 0.6

// Ingest reads an EDI standard workbook and converts every detected table
// region with the converter for opts.Kind.
func Ingest(ctx context.Context, path string, opts Options) (*models.WorkbookData, error) {
	if _, err := ParseKind(string(opts.Kind)); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	wb, err := IngestFile(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	wb.BookName = filepath.Base(path)
	return wb, nil
}

// IngestFile runs ingestion over an already opened workbook.
func IngestFile(ctx context.Context, f *excelize.File, opts Options) (*models.WorkbookData, error) {
	ing := &ingester{
		opts:     opts,
		log:      opts.logger().With("kind", opts.Kind),
		detector: parser.NewDetector(opts.params(), opts.logger()),
		keywords: opts.keywords(),
	}
	if opts.UsePrintAreas && opts.Suggester != nil {
		ing.printAreas = parser.ExtractPrintAreas(f)
	}

	wb := &models.WorkbookData{}
	for _, sheetName := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, ing.sheet(ctx, f, sheetName, wb))
	}

	ing.log.Info("ingestion finished",
		"sheets", len(wb.Sheets),
		"tables", wb.TableCount(),
	)
	return wb, nil
}

type ingester struct {
	opts       Options
	log        *slog.Logger
	detector   *parser.Detector
	keywords   []string
	printAreas map[string][]models.RegionBounds
}

func (ing *ingester) sheet(ctx context.Context, f *excelize.File, sheetName string, wb *models.WorkbookData) models.SheetData {
	log := ing.log.With("sheet", sheetName)
	report := models.SheetData{Name: sheetName}

	if converter.IsSkippedSheet(sheetName) {
		log.Info("skipping non-data sheet")
		report.Skipped = true
		return report
	}

	grid, err := parser.ReadGrid(f, sheetName)
	if err != nil {
		xerr := &SheetError{Sheet: sheetName, Stage: StageGrid, Err: err}
		log.Warn("failed to read sheet", "error", xerr)
		report.Errors = append(report.Errors, xerr.Error())
		return report
	}

	var regions []models.TableRegion
	if bounds, ok := ing.opts.Regions[sheetName]; ok {
		regions = overrideRegions(grid, bounds)
		report.Detection = models.DetectionResult{Regions: regions, Confidence: 1}
	} else {
		report.Detection = ing.detector.Detect(grid, ing.keywords, sheetName)
		regions = report.Detection.Regions
		if report.Detection.NeedsAI && ing.opts.Suggester != nil {
			report.Suggested = ing.suggest(ctx, sheetName, grid, report.Detection, &report)
			regions = append(append([]models.TableRegion{}, regions...), report.Suggested...)
		}
	}

	if len(regions) == 0 {
		log.Warn("no tables detected")
		return report
	}

	for i, region := range regions {
		report.TableCandidates = append(report.TableCandidates, region.Ref())
		in := converter.Input{
			SheetName:   sheetName,
			Region:      region,
			Data:        parser.ExtractTableData(grid, region.RegionBounds),
			Index:       i,
			RegionCount: len(regions),
		}
		if err := ing.convert(in, wb); err != nil {
			xerr := &SheetError{Sheet: sheetName, Stage: StageConvert, Range: region.Ref(), Err: err}
			log.Warn("region dropped", "range", region.Ref(), "error", xerr)
			report.Errors = append(report.Errors, xerr.Error())
		}
	}
	return report
}

func (ing *ingester) convert(in converter.Input, wb *models.WorkbookData) error {
	switch ing.opts.Kind {
	case KindInformationItems:
		table, err := converter.InformationItems(in)
		if err != nil || table == nil {
			return err
		}
		wb.InformationItems = append(wb.InformationItems, *table)
	case KindMapping:
		table, err := converter.Mappings(in)
		if err != nil || table == nil {
			return err
		}
		wb.Mappings = append(wb.Mappings, *table)
	case KindCodeDefinitions:
		def, err := converter.CodeDefinitions(in)
		if err != nil || def == nil {
			return err
		}
		wb.CodeDefinitions = append(wb.CodeDefinitions, *def)
	}
	return nil
}

// suggest asks the fallback detector about low-confidence regions and keeps
// the valid suggestions that do not collide with detected regions.
func (ing *ingester) suggest(ctx context.Context, sheetName string, grid *parser.Grid, det models.DetectionResult, report *models.SheetData) []models.TableRegion {
	log := ing.log.With("sheet", sheetName)

	var hints []models.RegionBounds
	for _, r := range det.Regions {
		if r.Confidence < ing.detector.Params().NeedsAIThreshold {
			hints = append(hints, r.RegionBounds)
		}
	}
	if len(hints) == 0 {
		hints = ing.printAreas[sheetName]
	}

	suggestions, err := ing.opts.Suggester.SuggestRegions(ctx, aidetect.Sheet{Name: sheetName, Grid: grid}, hints)
	if err != nil {
		xerr := &SheetError{Sheet: sheetName, Stage: StageSuggest, Err: err}
		log.Warn("fallback detection failed", "error", xerr)
		report.Errors = append(report.Errors, xerr.Error())
		return nil
	}

	var accepted []models.TableRegion
	retained := append([]models.TableRegion{}, det.Regions...)
	for _, s := range suggestions {
		region := models.TableRegion{
			RegionBounds: s.RegionBounds,
			HeaderRow:    s.StartRow,
			TableType:    s.TableType,
			Confidence:   suggestedConfidence,
			Description:  s.Description,
		}
		if region.TableType == "" {
			region.TableType = models.TableUnknown
		}
		if !region.Valid() || region.EndRow >= grid.Height() || region.EndCol >= grid.Width() || region.StartRow < 0 || region.StartCol < 0 {
			log.Warn("suggested region rejected", "range", region.Ref())
			continue
		}
		if collides(region, retained) {
			log.Debug("suggested region overlaps a detected region", "range", region.Ref())
			continue
		}
		retained = append(retained, region)
		accepted = append(accepted, region)
	}
	return accepted
}

func collides(region models.TableRegion, others []models.TableRegion) bool {
	for _, o := range others {
		if parser.Overlaps(region.RegionBounds, o.RegionBounds, 0) {
			return true
		}
	}
	return false
}

// overrideRegions turns caller-supplied bounds into regions whose first row is the header.
func overrideRegions(grid *parser.Grid, bounds []models.RegionBounds) []models.TableRegion {
	regions := make([]models.TableRegion, 0, len(bounds))
	for _, b := range bounds {
		regions = append(regions, models.TableRegion{
			RegionBounds: b,
			HeaderRow:    b.StartRow,
			TableType:    parser.Classify(grid, b.StartRow, b.StartCol, b.EndCol),
			Confidence:   1,
			Description:  "manual region",
		})
	}
	return regions
}
