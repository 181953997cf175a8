package edimap

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates the input workbook does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFormat indicates the input is not a readable xlsx workbook.
	ErrInvalidFormat = errors.New("invalid xlsx format")
)

// Stage names the ingestion step a sheet failed in.
type Stage string

const (
	StageGrid    Stage = "grid"
	StageSuggest Stage = "suggest"
	StageConvert Stage = "convert"
)

// SheetError is a non-fatal failure while ingesting one sheet. Range is
// set when the failure concerns a single region.
type SheetError struct {
	Sheet string
	Stage Stage
	Range string
	Err   error
}

func (e *SheetError) Error() string {
	if e.Range != "" {
		return fmt.Sprintf("sheet %q %s %s: %v", e.Sheet, e.Stage, e.Range, e.Err)
	}
	return fmt.Sprintf("sheet %q %s: %v", e.Sheet, e.Stage, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
