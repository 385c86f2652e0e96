package spreadsheet_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/apperr"
	"github.com/init-pkg/sheet-relay/internal/config"
)

type format int

const (
	formatUnknown format = iota
	formatWorkbook
	formatCSV
	formatLegacyXLS
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errSheetNotFound = errors.New("sheet not found")

type SpreadsheetService struct {
	log         *slog.Logger
	maxFileSize int64
}

var _ app.SpreadsheetService = &SpreadsheetService{}

func New(cfg *config.Config, log *slog.Logger) *SpreadsheetService {
	return &SpreadsheetService{log, cfg.Upload.MaxFileSize}
}

func (this *SpreadsheetService) Decode(ctx context.Context, file app.FileInput) (*app.DecodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(file.Content) == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "file is empty")
	}
	if this.maxFileSize > 0 && int64(len(file.Content)) > this.maxFileSize {
		return nil, apperr.New(apperr.KindInvalidInput,
			fmt.Sprintf("file is larger than %d bytes", this.maxFileSize))
	}

	var (
		res *app.DecodeResult
		err error
	)
	switch detectFormat(file.Name, file.Content) {
	case formatWorkbook:
		res, err = this.decodeWorkbook(file)
	case formatCSV:
		res, err = this.decodeCSV(file)
	case formatLegacyXLS:
		return nil, apperr.New(apperr.KindDecode, "cannot read file: legacy .xls workbooks are not supported, save as .xlsx")
	default:
		return nil, apperr.New(apperr.KindDecode, "cannot read file: unsupported format")
	}

	if errors.Is(err, errSheetNotFound) {
		return nil, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("sheet %q not found", file.Sheet))
	}
	if err != nil {
		this.log.Warn("spreadsheet decode failed", "file", file.Name, "error", err)
		return nil, apperr.Wrap(err, apperr.KindDecode, "cannot read file")
	}

	this.log.Info("spreadsheet decoded",
		"file", file.Name,
		"sheet", res.Sheet,
		"columns", len(res.Header),
		"rows", len(res.Rows))
	return res, nil
}

func (this *SpreadsheetService) Analyze(ctx context.Context, file app.FileInput) (*app.AnalysisResult, error) {
	decoded, err := this.Decode(ctx, file)
	if err != nil {
		return nil, err
	}

	detection := app.NewDetectionResult(decoded.Rows)
	this.log.Info("duplicate rows detected",
		"file", file.Name,
		"rows", len(decoded.Rows),
		"duplicates", detection.DuplicateCount,
		"groups", len(detection.Groups))

	return &app.AnalysisResult{DecodeResult: *decoded, Detection: detection}, nil
}

func (this *SpreadsheetService) decodeWorkbook(file app.FileInput) (*app.DecodeResult, error) {
	f, err := openWorkbook(file.Content)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, sheets, err := pickSheet(f, file.Sheet)
	if err != nil {
		return nil, err
	}

	grid, err := readGrid(f, sheet)
	if err != nil {
		return nil, err
	}

	header, data := splitTable(grid)
	return &app.DecodeResult{Sheet: sheet, Sheets: sheets, Header: header, Rows: data}, nil
}

func (this *SpreadsheetService) decodeCSV(file app.FileInput) (*app.DecodeResult, error) {
	grid, err := readCSVGrid(file.Content)
	if err != nil {
		return nil, err
	}

	header, data := splitTable(grid)
	return &app.DecodeResult{Sheets: []string{}, Header: header, Rows: data}, nil
}

// detectFormat trusts the extension first and sniffs the content otherwise.
func detectFormat(name string, content []byte) format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return formatWorkbook
	case ".csv", ".tsv":
		return formatCSV
	case ".xls":
		return formatLegacyXLS
	}

	mt := mimetype.Detect(content)
	switch {
	case mt.Is(mimeXLSX):
		return formatWorkbook
	case mt.Is("application/vnd.ms-excel"):
		return formatLegacyXLS
	case mt.Is("text/csv"), mt.Is("text/tab-separated-values"), mt.Is("text/plain"):
		return formatCSV
	}
	return formatUnknown
}
