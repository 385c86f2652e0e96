package http_transport

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/sheet-relay/domain/apperr"
	"github.com/init-pkg/sheet-relay/domain/dtos"
)

// ErrorHandler renders every handler error as an ErrorResponse with the status of its kind.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			kind := apperr.KindInvalidInput
			switch {
			case fe.Code == fiber.StatusNotFound:
				kind = apperr.KindNotFound
			case fe.Code >= fiber.StatusInternalServerError:
				kind = apperr.KindInternal
			}
			return c.Status(fe.Code).JSON(dtos.ErrorResponse{
				Error: dtos.ErrorBody{Kind: string(kind), Message: fe.Message},
			})
		}

		kind := apperr.KindOf(err)
		status := apperr.HTTPStatus(kind)
		if kind == apperr.KindInternal {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		} else {
			log.Warn("request rejected", "method", c.Method(), "path", c.Path(), "kind", kind, "error", err)
		}

		return c.Status(status).JSON(dtos.ErrorResponse{
			Error: dtos.ErrorBody{Kind: string(kind), Message: apperr.MessageOf(err)},
		})
	}
}

// validate is the package-level validator instance used for request DTOs.
var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Wrap(err, apperr.KindInvalidInput,
				"invalid "+verrs[0].Field()+": failed "+verrs[0].Tag()+" check")
		}
		return apperr.Wrap(err, apperr.KindInvalidInput, "invalid request")
	}
	return nil
}
