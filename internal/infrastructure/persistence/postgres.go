package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerBlob struct {
	Key       string `gorm:"column:blob_key;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time
}

func (LedgerBlob) TableName() string { return "ledger_blobs" }

type PostgresBackend struct {
	db *gorm.DB
}

func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Migrate() error {
	return b.db.AutoMigrate(&LedgerBlob{})
}

func (b *PostgresBackend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var blob LedgerBlob
	err := b.db.WithContext(ctx).Where("blob_key = ?", key).Take(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(blob.Value), true, nil
}

func (b *PostgresBackend) Write(ctx context.Context, key string, data []byte) error {
	blob := LedgerBlob{Key: key, Value: string(data), UpdatedAt: time.Now()}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blob_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&blob).Error
}
