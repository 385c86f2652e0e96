package export_module

import (
	"github.com/init-pkg/sheet-relay/domain/app"
	export_service "github.com/init-pkg/sheet-relay/internal/app/export/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(export_service.New, fx.As(new(app.ExportService))),
	)
}
