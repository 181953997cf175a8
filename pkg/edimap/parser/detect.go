package parser

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// DefaultKeywords are the header phrases every detection pass looks for.
// Caller keywords are appended after them.
var DefaultKeywords = []string{
	"業務アプリ", "共通EDI", "マッピング", "情報項目",
	"コード", "Code", "名称", "Name", "値",
	"国連CEFACT", "CEFACT", "BIE", "メッセージ辞書",
	"データ型", "コード表", "入力値",
	"行番号", "ヘッダ", "項目名", "項目定義", "繰返し", "制定", "改定",
}

// typePhrases is checked in order; the first group with a hit decides the type.
var typePhrases = []struct {
	tableType models.TableType
	phrases   []string
}{
	{models.TableInformationItems, []string{"相互連携性情報項目", "情報項目表", "相互連携"}},
	{models.TableCefactBIE, []string{"国連cefact", "bie", "メッセージ辞書", "cefact"}},
	{models.TableDataTypeSupplement, []string{"データ型", "コード表", "補足情報"}},
	{models.TableMapping, []string{"マッピング"}},
	{models.TableCodeDefinition, []string{"コード", "code"}},
}

// DetectionParams holds parameters for table detection.
type DetectionParams struct {
	// MinDataCells is the non-blank count at which a row or column is dense.
	MinDataCells int
	// MaxSparseRun is the number of consecutive sparse rows a region tolerates.
	MaxSparseRun int
	// MergeOverlap is the row overlap ratio above which two regions are duplicates.
	MergeOverlap float64
	// NeedsAIThreshold is the aggregate confidence below which the fallback is requested.
	NeedsAIThreshold float64
	// MinRows is the smallest region height emitted.
	MinRows int
	// MinCols is the smallest region width emitted.
	MinCols int
}

// DefaultDetectionParams returns default table detection parameters.
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		MinDataCells:     3,
		MaxSparseRun:     2,
		MergeOverlap:     0.5,
		NeedsAIThreshold: 0.6,
		MinRows:          3,
		MinCols:          2,
	}
}

// Detector finds table regions in a grid by header keywords and data density.
type Detector struct {
	params DetectionParams
	log    *slog.Logger
}

// NewDetector returns a Detector. A nil logger uses slog.Default().
func NewDetector(params DetectionParams, log *slog.Logger) *Detector {
	if log == nil {
		log = slog.Default()
	}
	return &Detector{params: params, log: log}
}

// headerCandidate is a row that looks like a table header.
type headerCandidate struct {
	row        int
	confidence float64
	matched    []string
}

// density marks each row and column as dense or sparse.
type density struct {
	rows []bool
	cols []bool
}

// Detect scans grid for table regions. Keywords extend DefaultKeywords;
// sheetName is used for logging only.
func (d *Detector) Detect(grid *Grid, keywords []string, sheetName string) models.DetectionResult {
	log := d.log.With("sheet", sheetName)
	if grid == nil || grid.Height() == 0 || grid.Width() == 0 {
		log.Debug("empty grid")
		return models.DetectionResult{Regions: []models.TableRegion{}, NeedsAI: true}
	}

	all := make([]string, 0, len(DefaultKeywords)+len(keywords))
	all = append(all, DefaultKeywords...)
	for _, k := range keywords {
		if k != "" {
			all = append(all, k)
		}
	}

	dens := d.analyzeDensity(grid)
	candidates := findHeaderCandidates(grid, all)
	if len(candidates) == 0 {
		log.Debug("no header candidates")
		return models.DetectionResult{Regions: []models.TableRegion{}, NeedsAI: true}
	}

	var regions []models.TableRegion
	for _, c := range candidates {
		region, ok := d.estimateRegion(grid, dens, c)
		if !ok {
			log.Warn("region rejected", "headerRow", c.row)
			continue
		}
		regions = append(regions, region)
	}

	merged := d.mergeOverlapping(regions)
	confidence := meanConfidence(merged)
	needsAI := len(merged) == 0 || confidence < d.params.NeedsAIThreshold

	log.Debug("detection finished",
		"candidates", len(candidates),
		"regions", len(merged),
		"confidence", confidence,
		"needsAI", needsAI,
	)

	return models.DetectionResult{Regions: merged, NeedsAI: needsAI, Confidence: confidence}
}

func (d *Detector) analyzeDensity(grid *Grid) density {
	rowCounts := make([]int, grid.Height())
	colCounts := make([]int, grid.Width())
	for r := 0; r < grid.Height(); r++ {
		for c := 0; c < grid.Width(); c++ {
			if !grid.At(r, c).IsBlank() {
				rowCounts[r]++
				colCounts[c]++
			}
		}
	}

	dens := density{rows: make([]bool, len(rowCounts)), cols: make([]bool, len(colCounts))}
	for i, n := range rowCounts {
		dens.rows[i] = n >= d.params.MinDataCells
	}
	for i, n := range colCounts {
		dens.cols[i] = n >= d.params.MinDataCells
	}
	return dens
}

func findHeaderCandidates(grid *Grid, keywords []string) []headerCandidate {
	var candidates []headerCandidate
	for r := 0; r < grid.Height(); r++ {
		var matched []string
		for _, k := range keywords {
			if rowContains(grid, r, k) {
				matched = append(matched, k)
			}
		}
		if len(matched) == 0 {
			continue
		}

		score := 0.7 * float64(len(matched)) / float64(len(keywords))
		if countNonBlank(grid, r) >= 3 {
			score += 0.3
		}
		candidates = append(candidates, headerCandidate{
			row:        r,
			confidence: min(score, 1.0),
			matched:    matched,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})
	return candidates
}

func rowContains(grid *Grid, r int, keyword string) bool {
	for c := 0; c < grid.Width(); c++ {
		cell := grid.At(r, c)
		if cell.IsString() && strings.Contains(cell.Str, keyword) {
			return true
		}
	}
	return false
}

// countNonBlank counts non-blank cells in row r.
func countNonBlank(grid *Grid, r int) int {
	count := 0
	for c := 0; c < grid.Width(); c++ {
		if !grid.At(r, c).IsBlank() {
			count++
		}
	}
	return count
}

func (d *Detector) estimateRegion(grid *Grid, dens density, cand headerCandidate) (models.TableRegion, bool) {
	startCol, endCol := -1, -1
	for c := 0; c < grid.Width(); c++ {
		if grid.At(cand.row, c).IsBlank() {
			continue
		}
		if startCol < 0 {
			startCol = c
		}
		endCol = c
	}
	if startCol < 0 {
		return models.TableRegion{}, false
	}
	for c := startCol + 3; c <= endCol; c++ {
		if !dens.cols[c] {
			endCol = c - 1
			break
		}
	}

	startRow := 0
	for r := cand.row - 1; r >= 0; r-- {
		if dens.rows[r] {
			startRow = r + 1
			break
		}
	}

	endRow := cand.row
	sparse := 0
	for r := cand.row + 1; r < grid.Height(); r++ {
		if dens.rows[r] {
			endRow = r
			sparse = 0
			continue
		}
		sparse++
		if sparse > d.params.MaxSparseRun {
			break
		}
	}

	bounds := models.RegionBounds{StartRow: startRow, EndRow: endRow, StartCol: startCol, EndCol: endCol}
	if bounds.Rows() < d.params.MinRows || bounds.Cols() < d.params.MinCols {
		return models.TableRegion{}, false
	}

	tableType := Classify(grid, cand.row, startCol, endCol)
	confidence := cand.confidence
	if bounds.Rows() >= 5 && bounds.Cols() >= 3 {
		confidence = min(confidence+0.2, 1.0)
	}
	if tableType != models.TableUnknown {
		confidence = min(confidence+0.1, 1.0)
	}

	return models.TableRegion{
		RegionBounds: bounds,
		HeaderRow:    cand.row,
		TableType:    tableType,
		Confidence:   confidence,
		Description:  describe(tableType, cand.matched),
	}, true
}

// Classify matches the lowercased header text against typePhrases.
func Classify(grid *Grid, headerRow, startCol, endCol int) models.TableType {
	parts := make([]string, 0, endCol-startCol+1)
	for c := startCol; c <= endCol; c++ {
		if s := grid.At(headerRow, c).Trimmed(); s != "" {
			parts = append(parts, s)
		}
	}
	text := strings.ToLower(strings.Join(parts, " "))

	for _, group := range typePhrases {
		for _, p := range group.phrases {
			if strings.Contains(text, p) {
				return group.tableType
			}
		}
	}
	return models.TableUnknown
}

func describe(t models.TableType, matched []string) string {
	return string(t) + " table (" + strings.Join(matched, ", ") + ")"
}

// mergeOverlapping collapses duplicate detections greedily in candidate order.
func (d *Detector) mergeOverlapping(regions []models.TableRegion) []models.TableRegion {
	merged := make([]models.TableRegion, 0, len(regions))
	used := make([]bool, len(regions))
	for i := range regions {
		if used[i] {
			continue
		}
		current := regions[i]
		for j := i + 1; j < len(regions); j++ {
			if used[j] || !Overlaps(current.RegionBounds, regions[j].RegionBounds, d.params.MergeOverlap) {
				continue
			}
			if regions[j].Confidence > current.Confidence {
				current = regions[j]
			}
			used[j] = true
		}
		merged = append(merged, current)
	}
	return merged
}

// Overlaps reports whether two regions share more than ratio of the smaller
// row span and at least one column.
func Overlaps(a, b models.RegionBounds, ratio float64) bool {
	rowOverlap := min(a.EndRow, b.EndRow) - max(a.StartRow, b.StartRow) + 1
	if rowOverlap <= 0 {
		return false
	}
	minSpan := min(a.Rows(), b.Rows())
	if float64(rowOverlap)/float64(minSpan) <= ratio {
		return false
	}
	return min(a.EndCol, b.EndCol) >= max(a.StartCol, b.StartCol)
}

func meanConfidence(regions []models.TableRegion) float64 {
	if len(regions) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range regions {
		sum += r.Confidence
	}
	return sum / float64(len(regions))
}

// ExtractTableData returns the cells covered by bounds, clipped to the grid.
// Cells past the grid edge are returned blank.
func ExtractTableData(grid *Grid, bounds models.RegionBounds) [][]models.CellValue {
	if bounds.EndRow < bounds.StartRow || bounds.EndCol < bounds.StartCol || bounds.StartRow < 0 || bounds.StartCol < 0 {
		return nil
	}
	endRow := min(bounds.EndRow, grid.Height()-1)
	out := make([][]models.CellValue, 0, max(endRow-bounds.StartRow+1, 0))
	for r := bounds.StartRow; r <= endRow; r++ {
		row := make([]models.CellValue, bounds.Cols())
		for c := range row {
			row[c] = grid.At(r, bounds.StartCol+c)
		}
		out = append(out, row)
	}
	return out
}

// Params returns the detector's parameters.
func (d *Detector) Params() DetectionParams {
	return d.params
}
