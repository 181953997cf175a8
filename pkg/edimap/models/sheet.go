package models

// SheetData reports what detection found on a single sheet.
type SheetData struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Skipped is set for non-data sheets (cover, revision history).
	Skipped bool `json:"skipped,omitempty"`
	// Detection is the rule-based detection result.
	Detection DetectionResult `json:"detection"`
	// Suggested contains regions added by the fallback detector.
	Suggested []TableRegion `json:"suggested,omitempty"`
	// TableCandidates contains the A1 ranges of all regions used for extraction.
	TableCandidates []string `json:"table_candidates,omitempty"`
	// Errors lists non-fatal problems met while processing the sheet.
	Errors []string `json:"errors,omitempty"`
}
