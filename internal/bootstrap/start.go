package bootstrap

import (
	"go.uber.org/fx"
)

func options() fx.Option {
	return fx.Options(
		coreOptions(),
		clientsOptions(),
		appOptions(),
		httpOptions(),
	)
}

func Run() {
	app := fx.New(options())

	app.Run()
}
