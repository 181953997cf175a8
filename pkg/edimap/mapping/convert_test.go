package mapping

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		dataType models.DataType
		format   string
		expected any
	}{
		{"string from number", 123.0, models.DataTypeString, "", "123"},
		{"string trims", "  test  ", models.DataTypeString, "", "test"},
		{"nil passes", nil, models.DataTypeString, "", nil},
		{"no data type", " x ", "", "", " x "},
		{"number from text", "123", models.DataTypeNumber, "", 123.0},
		{"number with commas", "1,234", models.DataTypeNumber, "", 1234.0},
		{"number prefix", "12.5kg", models.DataTypeNumber, "", 12.5},
		{"number from int", 7, models.DataTypeNumber, "", 7.0},
		{"iso date", "2024-01-01", models.DataTypeDate, "", "2024-01-01"},
		{"date from datetime", "2024-01-01T12:00:00Z", models.DataTypeDate, "", "2024-01-01"},
		{"date from slashes", "2024/03/05", models.DataTypeDate, "", "2024-03-05"},
		{"date with layout", "05.03.2024", models.DataTypeDate, "02.01.2006", "2024-03-05"},
		{"date from time", time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), models.DataTypeDate, "", "2024-02-29"},
		{"datetime passes", "2024-01-01T12:00:00", models.DataTypeDateTime, "", "2024-01-01T12:00:00"},
		{"datetime from space", "2024-01-01 08:30:00", models.DataTypeDateTime, "", "2024-01-01T08:30:00"},
		{"datetime from date", "2024/01/02", models.DataTypeDateTime, "", "2024-01-02T00:00:00"},
		{"bool true", "true", models.DataTypeBoolean, "", true},
		{"bool false", "false", models.DataTypeBoolean, "", false},
		{"bool one", "1", models.DataTypeBoolean, "", true},
		{"bool zero", "0", models.DataTypeBoolean, "", false},
		{"bool yes", " YES ", models.DataTypeBoolean, "", true},
		{"bool circle", "○", models.DataTypeBoolean, "", true},
		{"bool number", 2.0, models.DataTypeBoolean, "", true},
		{"bool zero number", 0, models.DataTypeBoolean, "", false},
		{"code", "CODE001", models.DataTypeCode, "", "CODE001"},
		{"code from number", 123.0, models.DataTypeCode, "", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.value, tt.dataType, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		dataType models.DataType
	}{
		{"invalid date", "invalid-date", models.DataTypeDate},
		{"invalid datetime", "tomorrow", models.DataTypeDateTime},
		{"date from number", 20240101.0, models.DataTypeDate},
		{"not a number", "abc", models.DataTypeNumber},
		{"bool as number", true, models.DataTypeNumber},
		{"unknown type", "x", models.DataType("money")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.value, tt.dataType, "")
			require.Error(t, err)
			var convErr *ConversionError
			require.True(t, errors.As(err, &convErr))
			assert.Equal(t, tt.dataType, convErr.DataType)
		})
	}

	_, err := Convert("x", "money", "")
	assert.ErrorIs(t, err, ErrUnsupportedDataType)
}

func TestPaths(t *testing.T) {
	obj := map[string]any{"a": map[string]any{"b": 1.0, "n": nil}, "s": "x"}

	v, ok := GetPath(obj, "a.b")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = GetPath(obj, "a.n")
	assert.False(t, ok)
	_, ok = GetPath(obj, "s.t")
	assert.False(t, ok)
	_, ok = GetPath(obj, "missing")
	assert.False(t, ok)

	items := map[string]any{
		"items": []any{map[string]any{"q": 1.0}, map[string]any{"q": 2.0}},
		"lines": []map[string]any{{"no": "L1"}},
	}
	v, ok = GetPath(items, "items.1.q")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	v, ok = GetPath(items, "lines.0.no")
	assert.True(t, ok)
	assert.Equal(t, "L1", v)
	for _, path := range []string{"items.2.q", "items.-1.q", "items.first.q", "lines.1.no"} {
		_, ok = GetPath(items, path)
		assert.False(t, ok, path)
	}

	SetPath(obj, "s.t", "y")
	SetPath(obj, "a.c.d", 2.0)
	assert.Equal(t, map[string]any{"t": "y"}, obj["s"])
	assert.Equal(t, 2.0, obj["a"].(map[string]any)["c"].(map[string]any)["d"])
	assert.Equal(t, 1.0, obj["a"].(map[string]any)["b"])
}
