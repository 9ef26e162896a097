package repository

import (
	"context"

	"gorm.io/gorm"

	"faculty-appraisal/internal/model"
	"faculty-appraisal/pkg/apperrors"
)

// AppraisalListFilters 考核列表筛选条件
type AppraisalListFilters struct {
	CycleID      string
	FacultyID    string
	DepartmentID string // 按教师所属系过滤（系主任视角）
	CollegeID    string // 按教师所属学院过滤（院长视角）
	FacultyRole  model.Role
	Status       model.AppraisalStatus
}

// AppraisalRepository 考核数据访问接口
type AppraisalRepository interface {
	Create(ctx context.Context, appraisal *model.Appraisal) error
	GetByID(ctx context.Context, id string) (*model.Appraisal, error)
	GetByFacultyAndCycle(ctx context.Context, facultyID, cycleID string) (*model.Appraisal, error)
	List(ctx context.Context, filters *AppraisalListFilters, offset, limit int) ([]model.Appraisal, int64, error)
	Update(ctx context.Context, appraisal *model.Appraisal) error
}

type appraisalRepo struct {
	db *gorm.DB
}

// NewAppraisalRepo 创建 AppraisalRepository 实例
func NewAppraisalRepo(db *gorm.DB) AppraisalRepository {
	return &appraisalRepo{db: db}
}

func (r *appraisalRepo) Create(ctx context.Context, appraisal *model.Appraisal) error {
	return r.db.WithContext(ctx).Create(appraisal).Error
}

func (r *appraisalRepo) GetByID(ctx context.Context, id string) (*model.Appraisal, error) {
	var appraisal model.Appraisal
	err := r.db.WithContext(ctx).
		Preload("Faculty").
		Preload("Faculty.Department").
		Preload("Faculty.Department.College").
		Preload("Faculty.College").
		Preload("Cycle").
		Where("appraisal_id = ?", id).
		First(&appraisal).Error
	if err != nil {
		return nil, err
	}
	return &appraisal, nil
}

func (r *appraisalRepo) GetByFacultyAndCycle(ctx context.Context, facultyID, cycleID string) (*model.Appraisal, error) {
	var appraisal model.Appraisal
	err := r.db.WithContext(ctx).
		Where("faculty_id = ? AND cycle_id = ?", facultyID, cycleID).
		First(&appraisal).Error
	if err != nil {
		return nil, err
	}
	return &appraisal, nil
}

func (r *appraisalRepo) List(ctx context.Context, filters *AppraisalListFilters, offset, limit int) ([]model.Appraisal, int64, error) {
	var appraisals []model.Appraisal
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Appraisal{})
	if filters != nil {
		if filters.CycleID != "" {
			db = db.Where("cycle_id = ?", filters.CycleID)
		}
		if filters.FacultyID != "" {
			db = db.Where("faculty_id = ?", filters.FacultyID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.DepartmentID != "" || filters.CollegeID != "" || filters.FacultyRole != "" {
			sub := r.db.Model(&model.User{}).Select("user_id")
			if filters.DepartmentID != "" {
				sub = sub.Where("department_id = ?", filters.DepartmentID)
			}
			if filters.CollegeID != "" {
				sub = sub.Where(
					"college_id = ? OR department_id IN (?)",
					filters.CollegeID,
					r.db.Model(&model.Department{}).Select("department_id").Where("college_id = ?", filters.CollegeID),
				)
			}
			if filters.FacultyRole != "" {
				sub = sub.Where("role = ?", filters.FacultyRole)
			}
			db = db.Where("faculty_id IN (?)", sub)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Faculty").
		Preload("Faculty.Department").
		Preload("Faculty.Department.College").
		Preload("Faculty.College").
		Preload("Cycle").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&appraisals).Error; err != nil {
		return nil, 0, err
	}

	return appraisals, total, nil
}

func (r *appraisalRepo) Update(ctx context.Context, appraisal *model.Appraisal) error {
	return saveAppraisalTx(r.db.WithContext(ctx), appraisal)
}

// saveAppraisalTx 带版本谓词写回考核行：version 不匹配说明有并发迁移先行落库，
// 本次写入拒绝并报乐观锁冲突。供 Update 及各跨表事务复用。
func saveAppraisalTx(tx *gorm.DB, appraisal *model.Appraisal) error {
	oldVersion := appraisal.Version
	result := tx.Model(&model.Appraisal{}).
		Where("appraisal_id = ? AND version = ?", appraisal.AppraisalID, oldVersion).
		Updates(map[string]interface{}{
			"status":                   appraisal.Status,
			"research_score":           appraisal.ResearchScore,
			"teaching_score":           appraisal.TeachingScore,
			"university_service_score": appraisal.UniversityServiceScore,
			"community_service_score":  appraisal.CommunityServiceScore,
			"total_score":              appraisal.TotalScore,
			"submitted_at":             appraisal.SubmittedAt,
			"hod_reviewed_at":          appraisal.HODReviewedAt,
			"dean_reviewed_at":         appraisal.DeanReviewedAt,
			"completed_at":             appraisal.CompletedAt,
			"updated_by":               appraisal.UpdatedBy,
			"version":                  oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	appraisal.Version = oldVersion + 1
	return nil
}
