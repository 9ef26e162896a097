package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/repository"
	"faculty-appraisal/pkg/apperrors"
)

// AppraisalService 考核业务接口。
// 状态机迁移全部收敛在显式方法内：Submit 记录自评提交时间（不改状态），
// SendScores 由评价人执行 IN_REVIEW → SCORES_SENT，Approve 由教师本人
// 执行 SCORES_SENT → COMPLETE。申诉支线见 AppealService。
type AppraisalService interface {
	// Create 教师本人在指定周期内发起考核（每周期至多一条）
	Create(ctx context.Context, facultyID string, req *dto.CreateAppraisalRequest) (*dto.AppraisalResponse, error)
	// GetByID 查询考核详情（本人 / 评价人 / 管理员）
	GetByID(ctx context.Context, actorID, appraisalID string) (*dto.AppraisalResponse, error)
	// List 按操作人角色限定可见范围的考核列表
	List(ctx context.Context, actorID string, req *dto.AppraisalListRequest) ([]dto.AppraisalResponse, int64, error)
	// Submit 教师本人提交自评材料（记录提交时间）
	Submit(ctx context.Context, facultyID, appraisalID string) (*dto.AppraisalResponse, error)
	// SendScores 评价人发送成绩：IN_REVIEW → SCORES_SENT
	SendScores(ctx context.Context, actorID, appraisalID string) (*dto.AppraisalResponse, error)
	// Approve 教师本人确认成绩：SCORES_SENT → COMPLETE（终态）
	Approve(ctx context.Context, facultyID, appraisalID string) (*dto.AppraisalResponse, error)
}

type appraisalService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAppraisalService 创建 AppraisalService 实例
func NewAppraisalService(repo *repository.Repository, logger *zap.Logger) AppraisalService {
	return &appraisalService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *appraisalService) Create(ctx context.Context, facultyID string, req *dto.CreateAppraisalRequest) (*dto.AppraisalResponse, error) {
	faculty, err := s.repo.User.GetByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("用户不存在")
		}
		return nil, err
	}
	if faculty.Role == model.RoleAdmin {
		return nil, apperrors.Forbidden("管理员不参加考核")
	}

	if _, err := s.repo.Cycle.GetByID(ctx, req.CycleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("考核周期不存在")
		}
		return nil, err
	}

	// 先查再建；并发窗口由 (faculty_id, cycle_id) 唯一索引兜底
	if _, err := s.repo.Appraisal.GetByFacultyAndCycle(ctx, facultyID, req.CycleID); err == nil {
		return nil, apperrors.InvalidState("该周期内已存在考核记录")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	appraisal := &model.Appraisal{
		FacultyID: facultyID,
		CycleID:   req.CycleID,
		Status:    model.StatusNew,
	}
	appraisal.CreatedBy = &facultyID
	if err := s.repo.Appraisal.Create(ctx, appraisal); err != nil {
		s.logger.Error("创建考核失败", zap.String("faculty_id", facultyID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("考核创建成功",
		zap.String("appraisal_id", appraisal.AppraisalID),
		zap.String("faculty_id", facultyID),
		zap.String("cycle_id", req.CycleID))

	full, err := s.repo.Appraisal.GetByID(ctx, appraisal.AppraisalID)
	if err != nil {
		return toAppraisalResponse(appraisal), nil
	}
	return toAppraisalResponse(full), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *appraisalService) GetByID(ctx context.Context, actorID, appraisalID string) (*dto.AppraisalResponse, error) {
	actor, appraisal, err := s.loadActorAndAppraisal(ctx, actorID, appraisalID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReadable(actor, appraisal); err != nil {
		return nil, err
	}
	return toAppraisalResponse(appraisal), nil
}

// ────────────────────── List ──────────────────────

// List 按角色限定可见范围：INSTRUCTOR 仅看本人，HOD 看本系，
// DEAN 看本学院，ADMIN 不受限。
func (s *appraisalService) List(ctx context.Context, actorID string, req *dto.AppraisalListRequest) ([]dto.AppraisalResponse, int64, error) {
	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.NotFound("用户不存在")
		}
		return nil, 0, err
	}

	filters := &repository.AppraisalListFilters{
		CycleID: req.CycleID,
		Status:  model.AppraisalStatus(req.Status),
	}
	switch actor.Role {
	case model.RoleAdmin:
		// 不限定范围
	case model.RoleDean:
		scope := actor.CollegeScope()
		if scope == "" {
			return nil, 0, apperrors.InvalidInput("院长未挂靠学院")
		}
		filters.CollegeID = scope
	case model.RoleHOD:
		if actor.DepartmentID == nil {
			return nil, 0, apperrors.InvalidInput("系主任未挂靠系")
		}
		filters.DepartmentID = *actor.DepartmentID
	default:
		filters.FacultyID = actor.UserID
	}

	appraisals, total, err := s.repo.Appraisal.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询考核列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AppraisalResponse, 0, len(appraisals))
	for i := range appraisals {
		result = append(result, *toAppraisalResponse(&appraisals[i]))
	}
	return result, total, nil
}

// ────────────────────── Submit ──────────────────────

func (s *appraisalService) Submit(ctx context.Context, facultyID, appraisalID string) (*dto.AppraisalResponse, error) {
	_, appraisal, err := s.loadActorAndAppraisal(ctx, facultyID, appraisalID)
	if err != nil {
		return nil, err
	}
	if appraisal.FacultyID != facultyID {
		return nil, apperrors.Forbidden("仅本人可提交自评材料")
	}
	if !appraisal.Status.Scorable() {
		return nil, apperrors.InvalidState("当前状态不允许提交自评材料")
	}

	now := time.Now()
	appraisal.SubmittedAt = &now
	appraisal.UpdatedBy = &facultyID
	if err := s.repo.Appraisal.Update(ctx, appraisal); err != nil {
		s.logger.Error("提交自评失败", zap.String("appraisal_id", appraisalID), zap.Error(err))
		return nil, err
	}
	return toAppraisalResponse(appraisal), nil
}

// ────────────────────── SendScores ──────────────────────

func (s *appraisalService) SendScores(ctx context.Context, actorID, appraisalID string) (*dto.AppraisalResponse, error) {
	actor, appraisal, err := s.loadActorAndAppraisal(ctx, actorID, appraisalID)
	if err != nil {
		return nil, err
	}

	role, err := ResolveEvaluatorAccess(actor, appraisal)
	if err != nil {
		return nil, err
	}

	// NEW 与 IN_REVIEW 均可发送；NEW 直接发送即发出一份未计分的成绩单
	if !appraisal.Status.CanSendScores() {
		return nil, apperrors.InvalidState("当前状态不允许发送成绩")
	}

	// 已进入评审的考核必须有本角色的权威评价记录才能发送
	if appraisal.Status == model.StatusInReview {
		if _, err := s.repo.Evaluation.GetByAppraisalAndRole(ctx, appraisalID, role); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.InvalidState("尚无评价记录，不能发送成绩")
			}
			return nil, err
		}
	}

	now := time.Now()
	appraisal.Status = model.StatusScoresSent
	switch role {
	case model.EvaluatorHOD:
		appraisal.HODReviewedAt = &now
	case model.EvaluatorDean:
		appraisal.DeanReviewedAt = &now
	}
	appraisal.UpdatedBy = &actorID

	if err := s.repo.Appraisal.Update(ctx, appraisal); err != nil {
		s.logger.Error("发送成绩失败", zap.String("appraisal_id", appraisalID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("成绩已发送",
		zap.String("appraisal_id", appraisalID),
		zap.String("role", string(role)),
		zap.String("by", actorID))
	return toAppraisalResponse(appraisal), nil
}

// ────────────────────── Approve ──────────────────────

func (s *appraisalService) Approve(ctx context.Context, facultyID, appraisalID string) (*dto.AppraisalResponse, error) {
	_, appraisal, err := s.loadActorAndAppraisal(ctx, facultyID, appraisalID)
	if err != nil {
		return nil, err
	}
	if appraisal.FacultyID != facultyID {
		return nil, apperrors.Forbidden("仅本人可确认成绩")
	}
	if !appraisal.Status.CanApprove() {
		return nil, apperrors.InvalidState("仅已发送成绩的考核可确认")
	}

	now := time.Now()
	appraisal.Status = model.StatusComplete
	appraisal.CompletedAt = &now
	appraisal.UpdatedBy = &facultyID

	if err := s.repo.Appraisal.Update(ctx, appraisal); err != nil {
		s.logger.Error("确认成绩失败", zap.String("appraisal_id", appraisalID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("考核已完成", zap.String("appraisal_id", appraisalID))
	return toAppraisalResponse(appraisal), nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *appraisalService) loadActorAndAppraisal(ctx context.Context, actorID, appraisalID string) (*model.User, *model.Appraisal, error) {
	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("用户不存在")
		}
		return nil, nil, err
	}
	appraisal, err := s.repo.Appraisal.GetByID(ctx, appraisalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("考核不存在")
		}
		return nil, nil, err
	}
	return actor, appraisal, nil
}

// ensureReadable 详情读权限：本人、管理员、或能解析出评分角色的上级
func (s *appraisalService) ensureReadable(actor *model.User, appraisal *model.Appraisal) error {
	if actor.UserID == appraisal.FacultyID || actor.Role == model.RoleAdmin {
		return nil
	}
	if _, err := ResolveEvaluatorAccess(actor, appraisal); err != nil {
		return apperrors.Forbidden("无权查看该考核")
	}
	return nil
}
