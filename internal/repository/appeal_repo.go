package repository

import (
	"context"

	"gorm.io/gorm"

	"faculty-appraisal/internal/model"
)

// AppealRepository 申诉数据访问接口。
// 申诉行与考核状态变更必须同事务落库（要么全部成功要么全部失败）。
type AppealRepository interface {
	GetByID(ctx context.Context, id string) (*model.Appeal, error)
	ListByAppraisal(ctx context.Context, appraisalID string) ([]model.Appeal, error)
	// CreateWithAppraisal 创建申诉并同步考核状态（SCORES_SENT → RETURNED）
	CreateWithAppraisal(ctx context.Context, appeal *model.Appeal, appraisal *model.Appraisal) error
	// UpdateWithAppraisal 裁决申诉并同步考核状态（RETURNED → SCORES_SENT）
	UpdateWithAppraisal(ctx context.Context, appeal *model.Appeal, appraisal *model.Appraisal) error
}

type appealRepo struct {
	db *gorm.DB
}

// NewAppealRepo 创建 AppealRepository 实例
func NewAppealRepo(db *gorm.DB) AppealRepository {
	return &appealRepo{db: db}
}

func (r *appealRepo) GetByID(ctx context.Context, id string) (*model.Appeal, error) {
	var appeal model.Appeal
	err := r.db.WithContext(ctx).
		Preload("Appraisal").
		Where("appeal_id = ?", id).
		First(&appeal).Error
	if err != nil {
		return nil, err
	}
	return &appeal, nil
}

func (r *appealRepo) ListByAppraisal(ctx context.Context, appraisalID string) ([]model.Appeal, error) {
	var appeals []model.Appeal
	err := r.db.WithContext(ctx).
		Where("appraisal_id = ?", appraisalID).
		Order("created_at DESC").
		Find(&appeals).Error
	return appeals, err
}

func (r *appealRepo) CreateWithAppraisal(ctx context.Context, appeal *model.Appeal, appraisal *model.Appraisal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appeal).Error; err != nil {
			return err
		}
		return saveAppraisalTx(tx, appraisal)
	})
}

func (r *appealRepo) UpdateWithAppraisal(ctx context.Context, appeal *model.Appeal, appraisal *model.Appraisal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appeal).Error; err != nil {
			return err
		}
		return saveAppraisalTx(tx, appraisal)
	})
}
