// Package edimap ingests EDI standard workbooks into typed tables.
package edimap

import (
	"fmt"
	"log/slog"

	"github.com/ukaji3/edimap-go/pkg/edimap/aidetect"
	"github.com/ukaji3/edimap-go/pkg/edimap/converter"
	"github.com/ukaji3/edimap-go/pkg/edimap/models"
	"github.com/ukaji3/edimap-go/pkg/edimap/parser"
)

// Kind represents the kind of workbook being ingested.
type Kind string

const (
	// KindInformationItems is the interoperability information-item table workbook.
	KindInformationItems Kind = "information-items"
	// KindMapping is the application to common EDI mapping workbook.
	KindMapping Kind = "mapping"
	// KindCodeDefinitions is the identification code definition workbook.
	KindCodeDefinitions Kind = "code-definitions"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindInformationItems, KindMapping, KindCodeDefinitions:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q (want information-items, mapping or code-definitions)", s)
	}
}

// Keywords returns the header keywords passed to the detector for this kind.
func (k Kind) Keywords() []string {
	switch k {
	case KindInformationItems:
		return converter.InformationItemKeywords
	case KindMapping:
		return converter.MappingKeywords
	case KindCodeDefinitions:
		return converter.CodeDefinitionKeywords
	default:
		return nil
	}
}

// Options configures ingestion behavior.
type Options struct {
	// Kind selects the converter applied to every detected region.
	Kind Kind
	// Keywords are extra header keywords added to the kind's list.
	Keywords []string
	// Params tunes the detector. The zero value means parser.DefaultDetectionParams().
	Params parser.DetectionParams
	// Suggester is consulted when detection confidence is low. Nil disables the fallback.
	Suggester aidetect.Suggester
	// Regions overrides detection for the named sheets.
	Regions map[string][]models.RegionBounds
	// UsePrintAreas passes a sheet's print areas to the Suggester when
	// detection found no low-confidence region to check.
	UsePrintAreas bool
	// Logger receives progress and warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns default ingestion options for a kind.
func DefaultOptions(kind Kind) Options {
	return Options{
		Kind:          kind,
		Params:        parser.DefaultDetectionParams(),
		UsePrintAreas: true,
	}
}

func (o Options) params() parser.DetectionParams {
	if o.Params == (parser.DetectionParams{}) {
		return parser.DefaultDetectionParams()
	}
	return o.Params
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) keywords() []string {
	kw := append([]string{}, o.Kind.Keywords()...)
	return append(kw, o.Keywords...)
}
