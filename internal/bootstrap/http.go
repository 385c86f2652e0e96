package bootstrap

import (
	"context"
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/sheet-relay/internal/config"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
	"go.uber.org/fx"
)

type routersParams struct {
	fx.In

	Handlers []http_transport.HttpHandler `group:"routers"`
}

func httpOptions() fx.Option {
	return fx.Options(
		fx.Provide(http_transport.NewApp),
		fx.Invoke(
			func(mainApp *fiber.App, p routersParams) {
				http_transport.Mount(mainApp, p.Handlers)
			},
			serve,
		),
	)
}

func serve(lc fx.Lifecycle, mainApp *fiber.App, cfg *config.Config, log *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Http.Addr)
			if err != nil {
				return err
			}

			go func() {
				if err := mainApp.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					log.Error("http server stopped", "error", err)
				}
			}()

			log.Info("http server listening", "addr", ln.Addr().String())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return mainApp.ShutdownWithContext(ctx)
		},
	})
}
