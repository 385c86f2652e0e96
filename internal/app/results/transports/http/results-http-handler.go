package results_http_handler

import (
	"bytes"
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/dtos"
	"github.com/init-pkg/sheet-relay/domain/rows"
	results_service "github.com/init-pkg/sheet-relay/internal/app/results/service"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
)

type ResultsHttpHandler struct {
	service app.ResultsService
	export  app.ExportService
}

func New(service app.ResultsService, export app.ExportService) *ResultsHttpHandler {
	return &ResultsHttpHandler{service, export}
}

func (this *ResultsHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/results")

	app.Get("/", this.page)
	app.Get("/export", this.exportResults)
}

func (this *ResultsHttpHandler) page(fctx fiber.Ctx) error {
	var ctx context.Context = fctx.Context()

	req, err := readQuery(fctx)
	if err != nil {
		return err
	}
	if err := http_transport.Validate(req); err != nil {
		return err
	}

	page, err := this.service.Page(ctx, toQuery(req))
	if err != nil {
		return err
	}
	return fctx.JSON(page)
}

func (this *ResultsHttpHandler) exportResults(fctx fiber.Ctx) error {
	var ctx context.Context = fctx.Context()

	query, err := readQuery(fctx)
	if err != nil {
		return err
	}
	req := dtos.ResultsExportRequest{
		ResultsQueryRequest: query,
		Format:              http_transport.FirstNonEmpty(fctx.Query("format"), string(app.ExportFormatCSV)),
		Mode:                http_transport.FirstNonEmpty(fctx.Query("mode"), string(app.ExportModeExclude)),
	}
	if err := http_transport.Validate(req); err != nil {
		return err
	}

	set, err := this.service.Select(ctx, toQuery(req.ResultsQueryRequest))
	if err != nil {
		return err
	}

	data := results_service.ToRows(set)
	format := app.ExportFormat(req.Format)

	var buf bytes.Buffer
	err = this.export.Export(&buf, app.ExportRequest{
		Format:     format,
		Mode:       app.ExportMode(req.Mode),
		Header:     set.Columns,
		Rows:       data,
		Duplicates: rows.Detect(data),
	})
	if err != nil {
		return err
	}

	fctx.Attachment(this.export.FileName("results", format))
	fctx.Set(fiber.HeaderContentType, this.export.ContentType(format))
	return fctx.Send(buf.Bytes())
}

func readQuery(fctx fiber.Ctx) (dtos.ResultsQueryRequest, error) {
	page, err := http_transport.QueryInt(fctx, "page", 1)
	if err != nil {
		return dtos.ResultsQueryRequest{}, err
	}
	size, err := http_transport.QueryInt(fctx, "page_size", results_service.DefaultPageSize)
	if err != nil {
		return dtos.ResultsQueryRequest{}, err
	}

	return dtos.ResultsQueryRequest{
		Page:     page,
		PageSize: size,
		Search:   fctx.Query("q"),
		Columns:  fctx.Query("columns"),
		SortBy:   fctx.Query("sort"),
		Order:    fctx.Query("order"),
	}, nil
}

func toQuery(req dtos.ResultsQueryRequest) app.ResultsQuery {
	var columns []string
	for _, col := range strings.Split(req.Columns, ",") {
		if col = strings.TrimSpace(col); col != "" {
			columns = append(columns, col)
		}
	}

	return app.ResultsQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Columns:  columns,
		SortBy:   req.SortBy,
		Order:    app.SortOrder(req.Order),
	}
}
