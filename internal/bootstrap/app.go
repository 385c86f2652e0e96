package bootstrap

import (
	export_module "github.com/init-pkg/sheet-relay/internal/app/export"
	results_module "github.com/init-pkg/sheet-relay/internal/app/results"
	spreadsheet_module "github.com/init-pkg/sheet-relay/internal/app/spreadsheet"
	upload_module "github.com/init-pkg/sheet-relay/internal/app/upload"
	"go.uber.org/fx"
)

func appOptions() fx.Option {
	return fx.Options(
		spreadsheet_module.Register(),
		export_module.Register(),
		upload_module.Register(),
		results_module.Register(),
	)
}
