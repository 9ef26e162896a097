package repository

import (
	"context"

	"gorm.io/gorm"

	"faculty-appraisal/internal/model"
)

// CycleRepository 考核周期数据访问接口
type CycleRepository interface {
	Create(ctx context.Context, cycle *model.Cycle) error
	GetByID(ctx context.Context, id string) (*model.Cycle, error)
	GetCurrent(ctx context.Context) (*model.Cycle, error)
	List(ctx context.Context) ([]model.Cycle, error)
	Update(ctx context.Context, cycle *model.Cycle) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ClearActive(ctx context.Context) error
}

type cycleRepo struct {
	db *gorm.DB
}

// NewCycleRepo 创建 CycleRepository 实例
func NewCycleRepo(db *gorm.DB) CycleRepository {
	return &cycleRepo{db: db}
}

func (r *cycleRepo) Create(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *cycleRepo) GetByID(ctx context.Context, id string) (*model.Cycle, error) {
	var cycle model.Cycle
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", id).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) GetCurrent(ctx context.Context) (*model.Cycle, error) {
	var cycle model.Cycle
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) List(ctx context.Context) ([]model.Cycle, error) {
	var cycles []model.Cycle
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&cycles).Error
	return cycles, err
}

func (r *cycleRepo) Update(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Save(cycle).Error
}

func (r *cycleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Cycle{}).
		Where("cycle_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// ClearActive 取消所有周期的激活标记（激活新周期前调用）
func (r *cycleRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.Cycle{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}
