package export_service

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/apperr"
	"github.com/init-pkg/sheet-relay/domain/rows"
)

type ExportService struct {
	log *slog.Logger
}

var _ app.ExportService = &ExportService{}

func New(log *slog.Logger) *ExportService {
	return &ExportService{log}
}

// Export writes the header and the rows that survive duplicate filtering.
func (this *ExportService) Export(w io.Writer, req app.ExportRequest) error {
	var kept []rows.Row
	switch req.Mode {
	case app.ExportModeFirst:
		kept = rows.FirstOccurrences(req.Rows)
	case app.ExportModeExclude, "":
		dups := req.Duplicates
		if dups == nil {
			dups = rows.Detect(req.Rows)
		}
		kept = rows.Unique(req.Rows, dups)
	default:
		return apperr.New(apperr.KindInvalidInput, fmt.Sprintf("unknown export mode %q", req.Mode))
	}

	var err error
	switch req.Format {
	case app.ExportFormatCSV:
		err = writeCSV(w, req.Header, kept)
	case app.ExportFormatXLSX:
		err = writeXLSX(w, req.Header, kept)
	default:
		return apperr.New(apperr.KindInvalidInput, fmt.Sprintf("unknown export format %q", req.Format))
	}
	if err != nil {
		return apperr.Wrap(err, apperr.KindInternal, "cannot build export file")
	}

	this.log.Info("export written",
		"format", req.Format,
		"mode", req.Mode,
		"rows", len(req.Rows),
		"kept", len(kept))
	return nil
}

func (this *ExportService) ContentType(format app.ExportFormat) string {
	switch format {
	case app.ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName derives the download name from the uploaded file name.
func (this *ExportService) FileName(base string, format app.ExportFormat) string {
	base = strings.TrimSpace(base)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "export"
	}
	return "cleaned_" + base + "." + string(format)
}
