package bootstrap

import (
	database_client "github.com/init-pkg/sheet-relay/internal/clients/database"
	rabbitmq_client "github.com/init-pkg/sheet-relay/internal/clients/rabbitmq"
	redis_client "github.com/init-pkg/sheet-relay/internal/clients/redis"
	webhook_client "github.com/init-pkg/sheet-relay/internal/clients/webhook"
	"go.uber.org/fx"
)

func clientsOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			webhook_client.New,
			database_client.New,
			redis_client.New,
			rabbitmq_client.New,
		),
	)
}
