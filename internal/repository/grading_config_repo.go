package repository

import (
	"context"

	"gorm.io/gorm"

	"faculty-appraisal/internal/model"
)

// GradingConfigRepository 计分配置数据访问接口
type GradingConfigRepository interface {
	Create(ctx context.Context, cfg *model.GradingConfig) error
	GetByID(ctx context.Context, id string) (*model.GradingConfig, error)
	GetByCycle(ctx context.Context, cycleID string) (*model.GradingConfig, error)
	GetGlobal(ctx context.Context) (*model.GradingConfig, error)
	List(ctx context.Context) ([]model.GradingConfig, error)
	Update(ctx context.Context, cfg *model.GradingConfig) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type gradingConfigRepo struct {
	db *gorm.DB
}

// NewGradingConfigRepo 创建 GradingConfigRepository 实例
func NewGradingConfigRepo(db *gorm.DB) GradingConfigRepository {
	return &gradingConfigRepo{db: db}
}

func (r *gradingConfigRepo) Create(ctx context.Context, cfg *model.GradingConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *gradingConfigRepo) GetByID(ctx context.Context, id string) (*model.GradingConfig, error) {
	var cfg model.GradingConfig
	err := r.db.WithContext(ctx).
		Where("config_id = ?", id).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *gradingConfigRepo) GetByCycle(ctx context.Context, cycleID string) (*model.GradingConfig, error) {
	var cfg model.GradingConfig
	err := r.db.WithContext(ctx).
		Where("scope = ? AND cycle_id = ?", model.ScopeCycle, cycleID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *gradingConfigRepo) GetGlobal(ctx context.Context) (*model.GradingConfig, error) {
	var cfg model.GradingConfig
	err := r.db.WithContext(ctx).
		Where("scope = ?", model.ScopeGlobal).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *gradingConfigRepo) List(ctx context.Context) ([]model.GradingConfig, error) {
	var cfgs []model.GradingConfig
	err := r.db.WithContext(ctx).
		Preload("Cycle").
		Order("created_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *gradingConfigRepo) Update(ctx context.Context, cfg *model.GradingConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *gradingConfigRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.GradingConfig{}).
		Where("config_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
