package repository

import (
	"context"

	"gorm.io/gorm"

	"faculty-appraisal/internal/model"
)

// AchievementRepository 业绩成果数据访问接口
type AchievementRepository interface {
	Create(ctx context.Context, achievement *model.Achievement) error
	GetByID(ctx context.Context, id string) (*model.Achievement, error)
	ListByAppraisal(ctx context.Context, appraisalID string) ([]model.Achievement, error)
	CountByCategory(ctx context.Context, appraisalID string, category model.Criterion) (int64, error)
	Update(ctx context.Context, achievement *model.Achievement) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type achievementRepo struct {
	db *gorm.DB
}

// NewAchievementRepo 创建 AchievementRepository 实例
func NewAchievementRepo(db *gorm.DB) AchievementRepository {
	return &achievementRepo{db: db}
}

func (r *achievementRepo) Create(ctx context.Context, achievement *model.Achievement) error {
	return r.db.WithContext(ctx).Create(achievement).Error
}

func (r *achievementRepo) GetByID(ctx context.Context, id string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.db.WithContext(ctx).
		Where("achievement_id = ?", id).
		First(&achievement).Error
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *achievementRepo) ListByAppraisal(ctx context.Context, appraisalID string) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.WithContext(ctx).
		Where("appraisal_id = ?", appraisalID).
		Order("created_at DESC").
		Find(&achievements).Error
	return achievements, err
}

func (r *achievementRepo) CountByCategory(ctx context.Context, appraisalID string, category model.Criterion) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Achievement{}).
		Where("appraisal_id = ? AND category = ?", appraisalID, category).
		Count(&count).Error
	return count, err
}

func (r *achievementRepo) Update(ctx context.Context, achievement *model.Achievement) error {
	return r.db.WithContext(ctx).Save(achievement).Error
}

func (r *achievementRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Achievement{}).
		Where("achievement_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
