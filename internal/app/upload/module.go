package upload_module

import (
	"github.com/init-pkg/sheet-relay/domain/app"
	upload_repository "github.com/init-pkg/sheet-relay/internal/app/upload/repository"
	upload_service "github.com/init-pkg/sheet-relay/internal/app/upload/service"
	upload_http_handler "github.com/init-pkg/sheet-relay/internal/app/upload/transports/http"
	rabbitmq_client "github.com/init-pkg/sheet-relay/internal/clients/rabbitmq"
	webhook_client "github.com/init-pkg/sheet-relay/internal/clients/webhook"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(upload_repository.New, fx.As(new(upload_service.RecordStore))),
		func(c *webhook_client.WebhookClient) upload_service.Sender { return c },
		func(p *rabbitmq_client.Publisher) upload_service.EventPublisher { return p },
		fx.Annotate(upload_service.New, fx.As(new(app.UploadService))),
		fx.Annotate(
			upload_http_handler.New,
			fx.As(new(http_transport.HttpHandler)),
			fx.ResultTags(`group:"routers"`),
		),
	)
}
