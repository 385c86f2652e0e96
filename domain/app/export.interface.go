package app

import (
	"io"

	"github.com/init-pkg/sheet-relay/domain/rows"
)

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type ExportMode string

const (
	// ExportModeExclude drops every row that belongs to a duplicate class.
	ExportModeExclude ExportMode = "exclude"
	// ExportModeFirst keeps the first row of each duplicate class.
	ExportModeFirst ExportMode = "first"
)

type ExportRequest struct {
	Format     ExportFormat
	Mode       ExportMode
	Header     []string
	Rows       []rows.Row
	Duplicates rows.DuplicateSet
}

type ExportService interface {
	Export(w io.Writer, req ExportRequest) error
	ContentType(format ExportFormat) string
	FileName(base string, format ExportFormat) string
}
