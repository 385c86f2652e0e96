package http_transport

import (
	"log/slog"
	"math"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/init-pkg/sheet-relay/internal/config"
)

// multipartOverhead leaves room for form fields and boundaries around the file.
const multipartOverhead = 1 << 20

// HttpHandler is implemented by every feature transport that mounts routes on the app.
type HttpHandler interface {
	Register(mainApp *fiber.App)
}

func NewApp(cfg *config.Config, log *slog.Logger) *fiber.App {
	mainApp := fiber.New(fiber.Config{
		AppName:      "sheet-relay",
		BodyLimit:    BodyLimit(cfg.Upload.MaxFileSize),
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: ErrorHandler(log),
	})

	mainApp.Use(recoverer.New(recoverer.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Error("handler panicked", "method", c.Method(), "path", c.Path(), "panic", e)
		},
	}))
	return mainApp
}

// BodyLimit sizes request bodies for uploads of maxFileSize bytes. A
// non-positive size means no file limit.
func BodyLimit(maxFileSize int64) int {
	if maxFileSize <= 0 || maxFileSize > math.MaxInt32-multipartOverhead {
		return math.MaxInt32
	}
	return int(maxFileSize) + multipartOverhead
}

// Mount registers the health route and every feature handler.
func Mount(mainApp *fiber.App, handlers []HttpHandler) {
	mainApp.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	for _, h := range handlers {
		h.Register(mainApp)
	}
}
