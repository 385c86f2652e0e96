package upload_service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/init-pkg/sheet-relay/domain/app"
	"github.com/init-pkg/sheet-relay/domain/apperr"
	upload_repository "github.com/init-pkg/sheet-relay/internal/app/upload/repository"
	webhook_client "github.com/init-pkg/sheet-relay/internal/clients/webhook"
	"github.com/init-pkg/sheet-relay/internal/config"
)

const RoutingKeyUploadCompleted = "upload.completed"

// eventTimeout bounds how long a finished upload waits on the broker.
const eventTimeout = 5 * time.Second

type Sender interface {
	Send(ctx context.Context, u webhook_client.Upload) (*webhook_client.Response, error)
}

type RecordStore interface {
	Save(ctx context.Context, rec *upload_repository.UploadRecord) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type UploadCompletedEvent struct {
	ID         string    `json:"id"`
	Webhook    string    `json:"webhook"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	ResultURL  string    `json:"result_url,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type UploadService struct {
	sender      Sender
	store       RecordStore
	events      EventPublisher
	results     app.ResultsService
	webhooks    map[string]string
	maxFileSize int64
	log         *slog.Logger
	now         func() time.Time
}

var _ app.UploadService = &UploadService{}

func New(
	cfg *config.Config,
	sender Sender,
	store RecordStore,
	events EventPublisher,
	results app.ResultsService,
	log *slog.Logger,
) *UploadService {
	return &UploadService{
		sender:      sender,
		store:       store,
		events:      events,
		results:     results,
		webhooks:    cfg.WebhookUrls(),
		maxFileSize: cfg.Upload.MaxFileSize,
		log:         log,
		now:         time.Now,
	}
}

func (this *UploadService) Webhooks() []string {
	names := make([]string, 0, len(this.webhooks))
	for name := range this.webhooks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (this *UploadService) Upload(ctx context.Context, in app.UploadInput) (*app.UploadResult, error) {
	url, ok := this.webhooks[in.Webhook]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, fmt.Sprintf("webhook %q is not configured", in.Webhook))
	}
	if in.FileName == "" || len(in.Content) == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "a non-empty file is required")
	}
	if this.maxFileSize > 0 && int64(len(in.Content)) > this.maxFileSize {
		return nil, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("file is larger than %d bytes", this.maxFileSize))
	}

	id := uuid.NewString()
	uploadedAt := this.now().UTC()

	this.log.Info("forwarding file to webhook",
		"id", id,
		"webhook", in.Webhook,
		"file", in.FileName,
		"size", len(in.Content))

	res, err := this.sender.Send(ctx, webhook_client.Upload{
		Url:        url,
		FileName:   in.FileName,
		Content:    in.Content,
		UploadedAt: uploadedAt,
	})

	// the record outlives a canceled or timed out request
	this.record(context.WithoutCancel(ctx), id, in, uploadedAt, res, err)

	if err != nil {
		this.log.Warn("webhook upload failed",
			"id", id,
			"webhook", in.Webhook,
			"kind", apperr.KindOf(err),
			"error", err)
		return nil, err
	}

	result := &app.UploadResult{
		ID:         id,
		Webhook:    in.Webhook,
		FileName:   in.FileName,
		FileSize:   int64(len(in.Content)),
		UploadedAt: uploadedAt,
		ResultURL:  res.ResultUrl,
	}

	event := UploadCompletedEvent{
		ID:         result.ID,
		Webhook:    result.Webhook,
		FileName:   result.FileName,
		FileSize:   result.FileSize,
		ResultURL:  result.ResultURL,
		UploadedAt: result.UploadedAt,
	}
	pubCtx, cancel := context.WithTimeout(ctx, eventTimeout)
	err = this.events.Publish(pubCtx, RoutingKeyUploadCompleted, event)
	cancel()
	if err != nil {
		this.log.Warn("failed to publish upload event", "id", id, "error", err)
	}
	if err := this.results.Invalidate(ctx); err != nil {
		this.log.Warn("failed to invalidate results cache", "error", err)
	}

	return result, nil
}

func (this *UploadService) record(
	ctx context.Context,
	id string,
	in app.UploadInput,
	uploadedAt time.Time,
	res *webhook_client.Response,
	sendErr error,
) {
	rec := &upload_repository.UploadRecord{
		ID:        id,
		Webhook:   in.Webhook,
		FileName:  in.FileName,
		FileSize:  int64(len(in.Content)),
		Status:    upload_repository.StatusSuccess,
		CreatedAt: uploadedAt,
	}
	if sendErr != nil {
		kind := string(apperr.KindOf(sendErr))
		msg := apperr.MessageOf(sendErr)
		rec.Status = upload_repository.StatusFailed
		rec.ErrorKind = &kind
		rec.ErrorMessage = &msg
	} else if res != nil && res.ResultUrl != "" {
		rec.ResultUrl = &res.ResultUrl
	}

	if err := this.store.Save(ctx, rec); err != nil {
		this.log.Error("failed to save upload record", "id", id, "error", err)
	}
}
