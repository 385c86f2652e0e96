package results_module

import (
	"github.com/init-pkg/sheet-relay/domain/app"
	results_cache "github.com/init-pkg/sheet-relay/internal/app/results/cache"
	results_repository "github.com/init-pkg/sheet-relay/internal/app/results/repository"
	results_service "github.com/init-pkg/sheet-relay/internal/app/results/service"
	results_http_handler "github.com/init-pkg/sheet-relay/internal/app/results/transports/http"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(results_repository.New, fx.As(new(results_service.Repository))),
		fx.Annotate(results_cache.New, fx.As(new(results_service.Cache))),
		fx.Annotate(results_service.New, fx.As(new(app.ResultsService))),
		fx.Annotate(
			results_http_handler.New,
			fx.As(new(http_transport.HttpHandler)),
			fx.ResultTags(`group:"routers"`),
		),
	)
}
