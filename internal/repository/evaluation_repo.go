package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"faculty-appraisal/internal/model"
)

// EvaluationRepository 评价记录数据访问接口。
// (appraisal_id, role) 上的唯一约束是并发写入的串行化点：
// 同键并发 Upsert 无论先后，落库后至多一行，字段取后写者。
type EvaluationRepository interface {
	GetByAppraisalAndRole(ctx context.Context, appraisalID string, role model.EvaluatorRole) (*model.Evaluation, error)
	ListByAppraisal(ctx context.Context, appraisalID string) ([]model.Evaluation, error)
	// UpsertWithAppraisal 在同一事务内写入评价记录并同步考核行（总分/状态/时间戳）。
	// 冲突时仅覆盖 touched 列出的维度列，行上其他维度保持原值；总分与考核行
	// 的分量一律按事务内合并后的行重算，并发单维写不会互相清空。
	// 崩溃不会留下评价已写而考核未同步的中间态。
	UpsertWithAppraisal(ctx context.Context, eval *model.Evaluation, touched []string, appraisal *model.Appraisal) error
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) GetByAppraisalAndRole(ctx context.Context, appraisalID string, role model.EvaluatorRole) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.db.WithContext(ctx).
		Where("appraisal_id = ? AND role = ?", appraisalID, role).
		First(&eval).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *evaluationRepo) ListByAppraisal(ctx context.Context, appraisalID string) ([]model.Evaluation, error) {
	var evals []model.Evaluation
	err := r.db.WithContext(ctx).
		Where("appraisal_id = ?", appraisalID).
		Order("role ASC").
		Find(&evals).Error
	return evals, err
}

func (r *evaluationRepo) UpsertWithAppraisal(ctx context.Context, eval *model.Evaluation, touched []string, appraisal *model.Appraisal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 冲突键 (appraisal_id, role)：已有行则只覆盖本次触达的维度列，绝不插入第二行
		assign := append(append([]string{}, touched...),
			"evaluated_by", "evaluated_at", "updated_at", "updated_by")
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appraisal_id"}, {Name: "role"}},
			DoUpdates: clause.AssignmentColumns(assign),
		}).Create(eval).Error; err != nil {
			return err
		}

		// ON CONFLICT DO UPDATE 已持有行锁，事务内重读即合并后的权威行
		var merged model.Evaluation
		if err := tx.
			Where("appraisal_id = ? AND role = ?", eval.AppraisalID, eval.Role).
			First(&merged).Error; err != nil {
			return err
		}
		merged.TotalScore = merged.ComputeTotal()
		if err := tx.Model(&model.Evaluation{}).
			Where("evaluation_id = ?", merged.EvaluationID).
			Update("total_score", merged.TotalScore).Error; err != nil {
			return err
		}
		*eval = merged

		appraisal.ResearchScore = merged.ResearchPoints
		appraisal.TeachingScore = merged.TeachingPoints
		appraisal.UniversityServiceScore = merged.UniversityServicePoints
		appraisal.CommunityServiceScore = merged.CommunityServicePoints
		total := merged.TotalScore
		appraisal.TotalScore = &total
		return saveAppraisalTx(tx, appraisal)
	})
}
