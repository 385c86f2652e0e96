package webhook_client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/init-pkg/sheet-relay/domain/apperr"
	"github.com/init-pkg/sheet-relay/internal/config"
	"github.com/tidwall/gjson"
)

const maxResponseBody = 1 << 20

// Multipart field names the receiving webhook workflow reads.
const (
	fieldFile      = "data"
	fieldFileName  = "fileName"
	fieldFileSize  = "fileSize"
	fieldTimestamp = "timestamp"
)

// timestampLayout renders UTC times with milliseconds, e.g. 2026-03-01T12:00:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	resultUrlPaths    = []string{"editedFileUrl", "downloadUrl", "fileUrl", "file_url", "resultUrl", "result_url", "url"}
	errorMessagePaths = []string{"message", "error.message", "error", "detail"}
)

type WebhookClient struct {
	client  *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// Upload is one file forwarded to a webhook endpoint.
type Upload struct {
	Url        string
	FileName   string
	Content    []byte
	UploadedAt time.Time
}

type Response struct {
	StatusCode int
	// ResultUrl is empty when the endpoint returned no result file.
	ResultUrl string
}

func New(cfg *config.Config, log *slog.Logger) *WebhookClient {
	return &WebhookClient{
		client:  &http.Client{},
		timeout: cfg.Upload.Timeout,
		log:     log,
	}
}

// Send posts the file as multipart/form-data and waits at most the configured
// timeout for the whole exchange.
func (this *WebhookClient) Send(ctx context.Context, u Upload) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, this.timeout)
	defer cancel()

	body, contentType, e := encodeMultipart(u)
	if e != nil {
		return nil, apperr.Wrap(e, apperr.KindInternal, "cannot encode upload")
	}

	req, e := http.NewRequestWithContext(ctx, http.MethodPost, u.Url, body)
	if e != nil {
		return nil, apperr.Wrap(e, apperr.KindInternal, "invalid webhook url")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	res, e := this.client.Do(req)
	if e != nil {
		return nil, this.classify(ctx, e)
	}
	defer res.Body.Close()

	raw, e := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if e != nil {
		return nil, this.classify(ctx, e)
	}

	this.log.Info("webhook responded",
		"url", u.Url,
		"file", u.FileName,
		"status", res.StatusCode,
		"elapsed", time.Since(started))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &apperr.Error{
			Kind:    apperr.KindUpstreamStatus,
			Message: statusMessage(res.StatusCode, raw),
			Status:  res.StatusCode,
			Err:     fmt.Errorf("API error %d: %s", res.StatusCode, truncate(raw, 512)),
		}
	}

	return &Response{StatusCode: res.StatusCode, ResultUrl: firstString(raw, resultUrlPaths)}, nil
}

func (this *WebhookClient) classify(ctx context.Context, e error) error {
	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(e, context.DeadlineExceeded):
		return apperr.Wrap(e, apperr.KindTimeout,
			fmt.Sprintf("webhook did not respond within %s", this.timeout))
	case errors.As(e, &netErr) && netErr.Timeout():
		return apperr.Wrap(e, apperr.KindTimeout,
			fmt.Sprintf("webhook did not respond within %s", this.timeout))
	case errors.Is(e, context.Canceled):
		return apperr.Wrap(e, apperr.KindInternal, "upload was canceled")
	default:
		return apperr.Wrap(e, apperr.KindConnectivity, "webhook is unreachable")
	}
}

func encodeMultipart(u Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldFile, u.FileName))
	header.Set("Content-Type", mimetype.Detect(u.Content).String())
	part, e := w.CreatePart(header)
	if e != nil {
		return nil, "", e
	}
	if _, e := part.Write(u.Content); e != nil {
		return nil, "", e
	}

	fields := [][2]string{
		{fieldFileName, u.FileName},
		{fieldFileSize, strconv.Itoa(len(u.Content))},
		{fieldTimestamp, u.UploadedAt.UTC().Format(timestampLayout)},
	}
	for _, f := range fields {
		if e := w.WriteField(f[0], f[1]); e != nil {
			return nil, "", e
		}
	}

	if e := w.Close(); e != nil {
		return nil, "", e
	}
	return &buf, w.FormDataContentType(), nil
}

// statusMessage prefers the message of a JSON error body over a generic one.
func statusMessage(status int, body []byte) string {
	if msg := firstString(body, errorMessagePaths); msg != "" {
		return msg
	}
	return fmt.Sprintf("webhook responded with status %d %s", status, http.StatusText(status))
}

func firstString(body []byte, paths []string) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, p := range paths {
		if v := gjson.GetBytes(body, p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
