package http_transport

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/sheet-relay/domain/apperr"
)

// ReadFormFile loads a multipart file field fully into memory, refusing
// anything larger than maxSize bytes when maxSize is positive.
func ReadFormFile(c fiber.Ctx, field string, maxSize int64) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindInvalidInput, fmt.Sprintf("multipart field %q with a file is required", field))
	}
	if maxSize > 0 && fh.Size > maxSize {
		return "", nil, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("file is larger than %d bytes", maxSize))
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindInvalidInput, "cannot open uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindInvalidInput, "cannot read uploaded file")
	}
	return fh.Filename, content, nil
}

// QueryInt parses an integer query parameter, returning def when it is absent.
func QueryInt(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.KindInvalidInput, fmt.Sprintf("query parameter %q must be an integer", key))
	}
	return v, nil
}

// FirstNonEmpty returns v, or def when v is empty.
func FirstNonEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
