package app

import (
	"context"
	"time"
)

type UploadInput struct {
	Webhook  string
	FileName string
	Content  []byte
}

type UploadResult struct {
	ID         string    `json:"id"`
	Webhook    string    `json:"webhook"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
	// ResultURL is empty when the webhook did not return a result file.
	ResultURL string `json:"result_url,omitempty"`
}

type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Webhooks() []string
}
