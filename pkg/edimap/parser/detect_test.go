package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

func newTestDetector() *Detector {
	return NewDetector(DefaultDetectionParams(), nil)
}

func mappingGrid() *Grid {
	rows := [][]string{{"業務アプリ", "共通EDI", "マッピング", "情報項目"}}
	for i := 0; i < 6; i++ {
		rows = append(rows, []string{"app", "edi", "id", "memo"})
	}
	rows = append(rows, []string{}, []string{}, []string{})
	return GridFromStrings(rows)
}

func TestDetectMappingTable(t *testing.T) {
	result := newTestDetector().Detect(mappingGrid(), nil, "注文")

	require.Len(t, result.Regions, 1)
	region := result.Regions[0]
	assert.Equal(t, models.RegionBounds{StartRow: 0, EndRow: 6, StartCol: 0, EndCol: 3}, region.RegionBounds)
	assert.Equal(t, 0, region.HeaderRow)
	assert.Equal(t, models.TableMapping, region.TableType)

	want := 0.7*4/float64(len(DefaultKeywords)) + 0.3 + 0.2 + 0.1
	assert.InDelta(t, want, region.Confidence, 1e-9)
	assert.GreaterOrEqual(t, region.Confidence, 0.7)
	assert.InDelta(t, want, result.Confidence, 1e-9)
	assert.False(t, result.NeedsAI)
	assert.True(t, region.Valid())
}

func TestDetectIsDeterministic(t *testing.T) {
	d := newTestDetector()
	grid := mappingGrid()

	first := d.Detect(grid, []string{"明細"}, "s")
	second := d.Detect(grid, []string{"明細"}, "s")
	assert.Equal(t, first, second)
}

func TestDetectEmptyGrid(t *testing.T) {
	for _, grid := range []*Grid{nil, NewGrid(nil), GridFromStrings([][]string{{}, {}})} {
		result := newTestDetector().Detect(grid, nil, "empty")
		assert.Empty(t, result.Regions)
		assert.True(t, result.NeedsAI)
		assert.Zero(t, result.Confidence)
	}
}

func TestDetectNoHeaderCandidates(t *testing.T) {
	grid := GridFromStrings([][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
		{"7", "8", "9"},
	})

	result := newTestDetector().Detect(grid, nil, "numbers")
	assert.Empty(t, result.Regions)
	assert.True(t, result.NeedsAI)
	assert.Zero(t, result.Confidence)
}

func TestDetectRejectsSmallRegion(t *testing.T) {
	grid := GridFromStrings([][]string{
		{"コード", "名称", "値"},
		{"1", "a", "x"},
	})

	result := newTestDetector().Detect(grid, nil, "small")
	assert.Empty(t, result.Regions)
	assert.True(t, result.NeedsAI)
}

func TestDetectLowConfidenceNeedsAI(t *testing.T) {
	grid := GridFromStrings([][]string{
		{"コード", "x", "y"},
		{"01", "a", "b"},
		{"02", "c", "d"},
	})

	result := newTestDetector().Detect(grid, nil, "codes")
	require.Len(t, result.Regions, 1)
	assert.Equal(t, models.TableCodeDefinition, result.Regions[0].TableType)
	assert.InDelta(t, 0.7/float64(len(DefaultKeywords))+0.3+0.1, result.Regions[0].Confidence, 1e-9)
	assert.True(t, result.NeedsAI)
}

func TestDetectTrimsSparseTrailingColumns(t *testing.T) {
	rows := [][]string{{"コード", "名称", "説明", "備考", "注記"}}
	for i := 0; i < 4; i++ {
		rows = append(rows, []string{"c", "n", "d", "r"})
	}

	result := newTestDetector().Detect(GridFromStrings(rows), nil, "codes")
	require.Len(t, result.Regions, 1)
	region := result.Regions[0]
	assert.Equal(t, 0, region.StartCol)
	assert.Equal(t, 3, region.EndCol)
	assert.Equal(t, 4, region.EndRow)
	assert.Equal(t, models.TableCodeDefinition, region.TableType)
}

func TestDetectRowStartAfterPrecedingDenseRow(t *testing.T) {
	grid := GridFromStrings([][]string{
		{"title", "x", "y", "z"},
		{},
		{"項目名", "項目定義", "繰返し", "備考"},
		{"a", "b", "c", "d"},
		{"a", "b", "c", "d"},
		{},
		{"a", "b", "c", "d"},
	})

	result := newTestDetector().Detect(grid, nil, "items")
	require.Len(t, result.Regions, 1)
	region := result.Regions[0]
	assert.Equal(t, 1, region.StartRow)
	assert.Equal(t, 2, region.HeaderRow)
	assert.Equal(t, 6, region.EndRow)
}

func TestDetectToleratesTwoSparseRows(t *testing.T) {
	grid := GridFromStrings([][]string{
		{"業務アプリ", "共通EDI", "マッピング", "情報項目"},
		{"a", "b", "c", "d"},
		{},
		{},
		{"a", "b", "c", "d"},
		{},
		{},
		{},
		{"a", "b", "c", "d"},
	})

	result := newTestDetector().Detect(grid, nil, "mapping")
	require.Len(t, result.Regions, 1)
	region := result.Regions[0]
	assert.Equal(t, 0, region.StartRow)
	assert.Equal(t, 0, region.HeaderRow)
	assert.Equal(t, 4, region.EndRow)
}

func TestDetectCallerKeywords(t *testing.T) {
	grid := GridFromStrings([][]string{
		{"Foo", "Bar", "Baz"},
		{"1", "2", "3"},
		{"4", "5", "6"},
	})

	assert.Empty(t, newTestDetector().Detect(grid, nil, "s").Regions)

	result := newTestDetector().Detect(grid, []string{"Foo", ""}, "s")
	require.Len(t, result.Regions, 1)
	assert.Equal(t, models.TableUnknown, result.Regions[0].TableType)
	assert.InDelta(t, 0.7/float64(len(DefaultKeywords)+1)+0.3, result.Regions[0].Confidence, 1e-9)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		header   []string
		expected models.TableType
	}{
		{[]string{"相互連携性情報項目表", "マッピング"}, models.TableInformationItems},
		{[]string{"国連CEFACT", "BIE"}, models.TableCefactBIE},
		{[]string{"データ型", "コード表"}, models.TableDataTypeSupplement},
		{[]string{"業務アプリ", "マッピング"}, models.TableMapping},
		{[]string{"Code", "Name"}, models.TableCodeDefinition},
		{[]string{"foo", "bar"}, models.TableUnknown},
	}

	for _, tt := range tests {
		grid := GridFromStrings([][]string{tt.header})
		assert.Equal(t, tt.expected, Classify(grid, 0, 0, len(tt.header)-1), "%v", tt.header)
	}
}

func TestMergeOverlapping(t *testing.T) {
	region := func(r0, r1, c0, c1 int, conf float64) models.TableRegion {
		return models.TableRegion{
			RegionBounds: models.RegionBounds{StartRow: r0, EndRow: r1, StartCol: c0, EndCol: c1},
			HeaderRow:    r0,
			Confidence:   conf,
		}
	}
	d := newTestDetector()

	tests := []struct {
		name     string
		input    []models.TableRegion
		expected []models.TableRegion
	}{
		{
			name:     "higher confidence wins",
			input:    []models.TableRegion{region(0, 10, 0, 3, 0.5), region(2, 12, 2, 5, 0.8)},
			expected: []models.TableRegion{region(2, 12, 2, 5, 0.8)},
		},
		{
			name:     "tie keeps earlier",
			input:    []models.TableRegion{region(0, 10, 0, 3, 0.7), region(1, 10, 0, 3, 0.7)},
			expected: []models.TableRegion{region(0, 10, 0, 3, 0.7)},
		},
		{
			name:     "disjoint columns kept",
			input:    []models.TableRegion{region(0, 10, 0, 3, 0.7), region(0, 10, 4, 6, 0.9)},
			expected: []models.TableRegion{region(0, 10, 0, 3, 0.7), region(0, 10, 4, 6, 0.9)},
		},
		{
			name:     "half row overlap kept",
			input:    []models.TableRegion{region(0, 3, 0, 3, 0.7), region(2, 5, 0, 3, 0.9)},
			expected: []models.TableRegion{region(0, 3, 0, 3, 0.7), region(2, 5, 0, 3, 0.9)},
		},
		{
			name:     "empty",
			input:    nil,
			expected: []models.TableRegion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.mergeOverlapping(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, d.mergeOverlapping(got))
		})
	}
}

func TestExtractTableData(t *testing.T) {
	grid := GridFromStrings([][]string{
		{"a", "b", "c"},
		{"d", "e"},
	})

	data := ExtractTableData(grid, models.RegionBounds{StartRow: 0, EndRow: 5, StartCol: 1, EndCol: 3})
	require.Len(t, data, 2)
	assert.Len(t, data[0], 3)
	assert.Equal(t, "b", data[0][0].String())
	assert.Equal(t, "c", data[0][1].String())
	assert.True(t, data[0][2].IsBlank())
	assert.Equal(t, "e", data[1][0].String())
	assert.True(t, data[1][1].IsBlank())

	assert.Nil(t, ExtractTableData(grid, models.RegionBounds{StartRow: 2, EndRow: 1}))
}
