package spreadsheet_http_handler

import (
	"bytes"
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/dtos"
	"github.com/init-pkg/sheet-relay/domain/rows"
	"github.com/init-pkg/sheet-relay/internal/config"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
)

type SpreadsheetHttpHandler struct {
	service     app.SpreadsheetService
	export      app.ExportService
	maxFileSize int64
}

func New(cfg *config.Config, service app.SpreadsheetService, export app.ExportService) *SpreadsheetHttpHandler {
	return &SpreadsheetHttpHandler{service, export, cfg.Upload.MaxFileSize}
}

func (this *SpreadsheetHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/spreadsheets")

	app.Post("/preview", this.preview)
	app.Post("/export", this.exportUnique)
}

func (this *SpreadsheetHttpHandler) preview(fctx fiber.Ctx) error {
	var ctx context.Context = fctx.Context()

	req := dtos.SpreadsheetPreviewRequest{Sheet: fctx.FormValue("sheet")}
	if err := http_transport.Validate(req); err != nil {
		return err
	}

	name, content, err := http_transport.ReadFormFile(fctx, "file", this.maxFileSize)
	if err != nil {
		return err
	}

	res, err := this.service.Analyze(ctx, app.FileInput{Name: name, Content: content, Sheet: req.Sheet})
	if err != nil {
		return err
	}
	return fctx.JSON(res)
}

func (this *SpreadsheetHttpHandler) exportUnique(fctx fiber.Ctx) error {
	var ctx context.Context = fctx.Context()

	req := dtos.SpreadsheetExportRequest{
		Sheet:  fctx.FormValue("sheet"),
		Format: http_transport.FirstNonEmpty(fctx.FormValue("format"), string(app.ExportFormatCSV)),
		Mode:   http_transport.FirstNonEmpty(fctx.FormValue("mode"), string(app.ExportModeExclude)),
	}
	if err := http_transport.Validate(req); err != nil {
		return err
	}

	name, content, err := http_transport.ReadFormFile(fctx, "file", this.maxFileSize)
	if err != nil {
		return err
	}

	decoded, err := this.service.Decode(ctx, app.FileInput{Name: name, Content: content, Sheet: req.Sheet})
	if err != nil {
		return err
	}

	format := app.ExportFormat(req.Format)
	var buf bytes.Buffer
	err = this.export.Export(&buf, app.ExportRequest{
		Format:     format,
		Mode:       app.ExportMode(req.Mode),
		Header:     decoded.Header,
		Rows:       decoded.Rows,
		Duplicates: rows.Detect(decoded.Rows),
	})
	if err != nil {
		return err
	}

	fctx.Attachment(this.export.FileName(name, format))
	fctx.Set(fiber.HeaderContentType, this.export.ContentType(format))
	return fctx.Send(buf.Bytes())
}
