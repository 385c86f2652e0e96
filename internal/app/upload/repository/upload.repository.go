package upload_repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type UploadRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Webhook      string `gorm:"size:64;not null"`
	FileName     string `gorm:"size:512;not null"`
	FileSize     int64  `gorm:"not null"`
	Status       string `gorm:"size:16;not null"`
	ResultUrl    *string
	ErrorKind    *string `gorm:"size:32"`
	ErrorMessage *string
	CreatedAt    time.Time `gorm:"not null"`
}

func (UploadRecord) TableName() string {
	return "upload_records"
}

type UploadRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db}
}

func (this *UploadRepository) Save(ctx context.Context, rec *UploadRecord) error {
	return this.db.WithContext(ctx).Create(rec).Error
}
