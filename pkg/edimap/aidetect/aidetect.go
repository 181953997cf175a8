// Package aidetect asks a language model for table regions the rule-based
// detector could not place with confidence.
package aidetect

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
)

// Sheet is the sheet being analysed.
type Sheet struct {
	Name string
	Grid *parser.Grid
}

// Suggester proposes table regions for a sheet. Hints are the 0-based
// bounds of low-confidence detections. Implementations return no regions
// rather than an error when they have nothing useful to say.
type Suggester interface {
	SuggestRegions(ctx context.Context, sheet Sheet, hints []models.RegionBounds) ([]models.RegionHint, error)
}

// Region is a table region in the 1-based coordinates used when talking to the model.
type Region struct {
	StartRow    int    `json:"startRow" jsonschema:"minimum=1" jsonschema_description:"First row of the table, 1-based"`
	EndRow      int    `json:"endRow" jsonschema:"minimum=1" jsonschema_description:"Last row of the table, 1-based"`
	StartCol    int    `json:"startCol" jsonschema:"minimum=1" jsonschema_description:"First column of the table, 1-based (A=1)"`
	EndCol      int    `json:"endCol" jsonschema:"minimum=1" jsonschema_description:"Last column of the table, 1-based"`
	TableType   string `json:"tableType" jsonschema:"enum=information-items,enum=cefact-bie,enum=data-type-supplement,enum=mapping,enum=code-definition,enum=unknown" jsonschema_description:"Kind of table"`
	Description string `json:"description" jsonschema_description:"Short description of the table"`
}

// Response is the structured answer expected from the model.
type Response struct {
	Regions []Region `json:"regions" jsonschema_description:"Detected table regions"`
}

// Hint converts a 1-based model region into 0-based bounds.
func (r Region) Hint() models.RegionHint {
	tableType := models.TableType(r.TableType)
	switch tableType {
	case models.TableInformationItems, models.TableCefactBIE, models.TableDataTypeSupplement,
		models.TableMapping, models.TableCodeDefinition:
	default:
		tableType = models.TableUnknown
	}
	return models.RegionHint{
		RegionBounds: models.RegionBounds{
			StartRow: r.StartRow - 1,
			EndRow:   r.EndRow - 1,
			StartCol: r.StartCol - 1,
			EndCol:   r.EndCol - 1,
		},
		TableType:   tableType,
		Description: r.Description,
	}
}

// ParseResponse decodes a model answer that may be wrapped in a markdown
// code fence. Both a bare array and an object with a "regions" field are accepted.
func ParseResponse(text string) ([]models.RegionHint, error) {
	body := stripFence(text)

	var regions []Region
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &regions); err != nil {
			return nil, fmt.Errorf("decode regions: %w", err)
		}
	} else {
		var resp Response
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			return nil, fmt.Errorf("decode regions: %w", err)
		}
		regions = resp.Regions
	}

	hints := make([]models.RegionHint, 0, len(regions))
	for _, r := range regions {
		hints = append(hints, r.Hint())
	}
	return hints, nil
}

func stripFence(text string) string {
	body := strings.TrimSpace(text)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	lines := strings.Split(body, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Prompt renders the user prompt: the hint areas and a preview of the grid.
func Prompt(sheet Sheet, hints []models.RegionBounds, maxRows, maxCols int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s\n", sheet.Name)
	b.WriteString("Areas to check (1-based, inclusive):\n")
	for i, h := range hints {
		fmt.Fprintf(&b, "  area %d: rows %d-%d, columns %d-%d (%s)\n",
			i+1, h.StartRow+1, h.EndRow+1, h.StartCol+1, h.EndCol+1, h.Ref())
	}

	if sheet.Grid == nil {
		return b.String()
	}
	b.WriteString("Preview (row number, then cells separated by |):\n")
	rows := min(sheet.Grid.Height(), maxRows)
	cols := min(sheet.Grid.Width(), maxCols)
	for r := 0; r < rows; r++ {
		cells := make([]string, cols)
		for c := 0; c < cols; c++ {
			cells[c] = truncate(sheet.Grid.At(r, c).Trimmed(), 40)
		}
		fmt.Fprintf(&b, "%d: %s\n", r+1, strings.Join(cells, " | "))
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
