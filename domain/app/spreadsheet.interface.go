package app

import (
	"context"

	"github.com/init-pkg/sheet-relay/domain/rows"
)

type FileInput struct {
	Name    string
	Content []byte
	// Sheet selects a workbook sheet by name; empty means the first sheet.
	Sheet string
}

type DecodeResult struct {
	Sheet  string     `json:"sheet"`
	Sheets []string   `json:"sheets"`
	Header []string   `json:"header"`
	Rows   []rows.Row `json:"rows"`
}

type DetectionResult struct {
	Duplicates     []int   `json:"duplicates"`
	Groups         [][]int `json:"groups"`
	DuplicateCount int     `json:"duplicate_count"`
	UniqueCount    int     `json:"unique_count"`
}

type AnalysisResult struct {
	DecodeResult
	Detection DetectionResult `json:"detection"`
}

type SpreadsheetService interface {
	Decode(ctx context.Context, file FileInput) (*DecodeResult, error)
	Analyze(ctx context.Context, file FileInput) (*AnalysisResult, error)
}

// NewDetectionResult runs the duplicate detector over data.
func NewDetectionResult(data []rows.Row) DetectionResult {
	set := rows.Detect(data)
	return DetectionResult{
		Duplicates:     set.Sorted(),
		Groups:         rows.Groups(data),
		DuplicateCount: set.Len(),
		UniqueCount:    len(data) - set.Len(),
	}
}
