package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User          UserRepository
	College       CollegeRepository
	Department    DepartmentRepository
	Cycle         CycleRepository
	GradingConfig GradingConfigRepository
	Appraisal     AppraisalRepository
	Evaluation    EvaluationRepository
	Appeal        AppealRepository
	Achievement   AchievementRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		College:       NewCollegeRepo(db),
		Department:    NewDepartmentRepo(db),
		Cycle:         NewCycleRepo(db),
		GradingConfig: NewGradingConfigRepo(db),
		Appraisal:     NewAppraisalRepo(db),
		Evaluation:    NewEvaluationRepo(db),
		Appeal:        NewAppealRepo(db),
		Achievement:   NewAchievementRepo(db),
	}
}

// BeginTx 开启事务，与 WithTx 配合跨多个 Repository 使用
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到给定事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}
