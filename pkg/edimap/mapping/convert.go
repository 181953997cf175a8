package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// ErrUnsupportedDataType indicates a data type outside the known set.
var ErrUnsupportedDataType = errors.New("unsupported data type")

// ConversionError reports a value that could not be coerced.
type ConversionError struct {
	DataType models.DataType
	Value    any
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v to %s: %v", e.Value, e.DataType, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

var (
	isoDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	isoDateTime   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	numberPrefix  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// parseLayouts are tried in order for date strings outside ISO-8601 basic form.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Convert coerces value to dataType. Format is an optional Go time layout
// tried first for dates. A nil value or empty dataType returns value unchanged.
func Convert(value any, dataType models.DataType, format string) (any, error) {
	if value == nil || dataType == "" {
		return value, nil
	}

	var (
		out any
		err error
	)
	switch dataType {
	case models.DataTypeString, models.DataTypeCode:
		out = toString(value)
	case models.DataTypeNumber:
		out, err = toNumber(value)
	case models.DataTypeDate:
		out, err = toDate(value, format)
	case models.DataTypeDateTime:
		out, err = toDateTime(value, format)
	case models.DataTypeBoolean:
		out = toBoolean(value)
	default:
		err = ErrUnsupportedDataType
	}
	if err != nil {
		return nil, &ConversionError{DataType: dataType, Value: value, Err: err}
	}
	return out, nil
}

// toString trims strings and renders everything else as text.
func toString(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return stringify(value)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

func toNumber(value any) (float64, error) {
	if n, ok := numeric(value); ok {
		return n, nil
	}
	s, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("%T is not numeric", value)
	}
	return parseNumber(strings.ReplaceAll(s, ",", ""))
}

// parseNumber reads the longest numeric prefix of s, ignoring surrounding space.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	prefix := numberPrefix.FindString(s)
	if prefix == "" {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return strconv.ParseFloat(prefix, 64)
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toDate(value any, format string) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(dateLayout), nil
	case string:
		if isoDate.MatchString(v) {
			return v, nil
		}
		if isoDatePrefix.MatchString(v) {
			return v[:strings.IndexByte(v, 'T')], nil
		}
		t, err := parseTime(v, format)
		if err != nil {
			return "", err
		}
		return t.Format(dateLayout), nil
	default:
		return "", fmt.Errorf("invalid date value of type %T", value)
	}
}

func toDateTime(value any, format string) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(dateTimeLayout), nil
	case string:
		if isoDateTime.MatchString(v) {
			return v, nil
		}
		t, err := parseTime(v, format)
		if err != nil {
			return "", err
		}
		return t.Format(dateTimeLayout), nil
	default:
		return "", fmt.Errorf("invalid datetime value of type %T", value)
	}
}

func parseTime(s, format string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if format != "" {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO8601 date string: %q", s)
}

func toBoolean(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "○":
			return true
		}
		return false
	}
	if n, ok := numeric(value); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return value != nil
}
