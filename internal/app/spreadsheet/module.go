package spreadsheet_module

import (
	"github.com/init-pkg/sheet-relay/domain/app"
	spreadsheet_service "github.com/init-pkg/sheet-relay/internal/app/spreadsheet/service"
	spreadsheet_http_handler "github.com/init-pkg/sheet-relay/internal/app/spreadsheet/transports/http"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(spreadsheet_service.New, fx.As(new(app.SpreadsheetService))),
		fx.Annotate(
			spreadsheet_http_handler.New,
			fx.As(new(http_transport.HttpHandler)),
			fx.ResultTags(`group:"routers"`),
		),
	)
}
