package repository

import (
	"context"
	"errors"

	"training_portal_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKV MySQL 键值后端，单表 kv_entries
type GormKV struct {
	DB *gorm.DB
}

func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{DB: db}
}

func (g *GormKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.KVEntry
	err := g.DB.WithContext(ctx).First(&entry, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (g *GormKV) Set(ctx context.Context, key, value string) error {
	entry := model.KVEntry{Key: key, Value: value}
	return g.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (g *GormKV) Remove(ctx context.Context, key string) error {
	return g.DB.WithContext(ctx).Delete(&model.KVEntry{}, "`key` = ?", key).Error
}

func (g *GormKV) Ping(ctx context.Context) error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
