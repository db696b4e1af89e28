package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Knudge/internal/model"
)

// SnapshotRepository 引导会话快照的 postgres 后端，按 storage_key 唯一
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Load 记录不存在时返回 nil, nil
func (r *SnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var row model.OnboardingSnapshot
	err := r.db.WithContext(ctx).
		Where("storage_key = ?", key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query onboarding snapshot: %w", err)
	}

	return []byte(row.Data), nil
}

// Save 以 storage_key 为冲突键整体覆盖
func (r *SnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	row := model.OnboardingSnapshot{
		StorageKey: key,
		Data:       data,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"data": row.Data, "updated_at": gorm.Expr("now()"), "deleted_at": nil}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert onboarding snapshot: %w", err)
	}
	return nil
}
