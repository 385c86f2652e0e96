package upload_http_handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/dtos"
	"github.com/init-pkg/sheet-relay/internal/config"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
)

type UploadHttpHandler struct {
	service     app.UploadService
	maxFileSize int64
}

func New(cfg *config.Config, service app.UploadService) *UploadHttpHandler {
	return &UploadHttpHandler{service, cfg.Upload.MaxFileSize}
}

func (this *UploadHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/webhooks")

	app.Get("/", this.list)
	app.Post("/:name/upload", this.upload)
}

func (this *UploadHttpHandler) list(fctx fiber.Ctx) error {
	return fctx.JSON(dtos.WebhookListResponse{Webhooks: this.service.Webhooks()})
}

func (this *UploadHttpHandler) upload(fctx fiber.Ctx) error {
	var ctx context.Context = fctx.Context()

	req := dtos.WebhookUploadRequest{Webhook: fctx.Params("name")}
	if err := http_transport.Validate(req); err != nil {
		return err
	}

	name, content, err := http_transport.ReadFormFile(fctx, "file", this.maxFileSize)
	if err != nil {
		return err
	}

	res, err := this.service.Upload(ctx, app.UploadInput{
		Webhook:  req.Webhook,
		FileName: name,
		Content:  content,
	})
	if err != nil {
		return err
	}

	return fctx.JSON(res)
}
