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

// AppealService 申诉业务接口。
// 申诉支线：SCORES_SENT --Raise--> RETURNED --Resolve--> SCORES_SENT。
// 申诉行与考核状态迁移同事务落库，绝不出现申诉已建而状态未改的中间态。
type AppealService interface {
	// Raise 教师本人对已发送的成绩发起申诉
	Raise(ctx context.Context, facultyID, appraisalID string, req *dto.RaiseAppealRequest) (*dto.AppealResponse, error)
	// Resolve 评价人（或管理员）裁决申诉，考核回到 SCORES_SENT
	Resolve(ctx context.Context, actorID, appealID string, req *dto.ResolveAppealRequest) (*dto.AppealResponse, error)
	// ListByAppraisal 查询考核下的申诉记录
	ListByAppraisal(ctx context.Context, actorID, appraisalID string) ([]dto.AppealResponse, error)
}

type appealService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAppealService 创建 AppealService 实例
func NewAppealService(repo *repository.Repository, logger *zap.Logger) AppealService {
	return &appealService{repo: repo, logger: logger}
}

// ────────────────────── Raise ──────────────────────

func (s *appealService) Raise(ctx context.Context, facultyID, appraisalID string, req *dto.RaiseAppealRequest) (*dto.AppealResponse, error) {
	appraisal, err := s.repo.Appraisal.GetByID(ctx, appraisalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("考核不存在")
		}
		return nil, err
	}

	if appraisal.FacultyID != facultyID {
		return nil, apperrors.Forbidden("仅本人可对自己的考核发起申诉")
	}
	if !appraisal.Status.CanAppeal() {
		return nil, apperrors.InvalidState("仅已发送成绩的考核可发起申诉")
	}

	appeal := &model.Appeal{
		AppraisalID: appraisalID,
		FacultyID:   facultyID,
		Message:     req.Message,
	}
	appeal.CreatedBy = &facultyID

	appraisal.Status = model.StatusReturned
	appraisal.UpdatedBy = &facultyID

	if err := s.repo.Appeal.CreateWithAppraisal(ctx, appeal, appraisal); err != nil {
		s.logger.Error("发起申诉失败", zap.String("appraisal_id", appraisalID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("申诉已发起",
		zap.String("appeal_id", appeal.AppealID),
		zap.String("appraisal_id", appraisalID),
		zap.String("faculty_id", facultyID))
	return toAppealResponse(appeal), nil
}

// ────────────────────── Resolve ──────────────────────

func (s *appealService) Resolve(ctx context.Context, actorID, appealID string, req *dto.ResolveAppealRequest) (*dto.AppealResponse, error) {
	appeal, err := s.repo.Appeal.GetByID(ctx, appealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("申诉不存在")
		}
		return nil, err
	}
	if !appeal.Open() {
		return nil, apperrors.InvalidState("该申诉已裁决")
	}

	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("用户不存在")
		}
		return nil, err
	}

	// 裁决人必须是该考核的评价人（管理员经由名义角色同样通过）
	appraisal, err := s.repo.Appraisal.GetByID(ctx, appeal.AppraisalID)
	if err != nil {
		return nil, err
	}
	if _, err := ResolveEvaluatorAccess(actor, appraisal); err != nil {
		return nil, err
	}

	if appraisal.Status != model.StatusReturned {
		return nil, apperrors.InvalidState("申诉考核不在退回状态")
	}

	now := time.Now()
	appeal.ResolutionNote = req.ResolutionNote
	appeal.ResolvedBy = &actorID
	appeal.ResolvedAt = &now
	appeal.UpdatedBy = &actorID

	appraisal.Status = model.StatusScoresSent
	appraisal.UpdatedBy = &actorID

	if err := s.repo.Appeal.UpdateWithAppraisal(ctx, appeal, appraisal); err != nil {
		s.logger.Error("裁决申诉失败", zap.String("appeal_id", appealID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("申诉已裁决",
		zap.String("appeal_id", appealID),
		zap.String("resolved_by", actorID))
	return toAppealResponse(appeal), nil
}

// ────────────────────── ListByAppraisal ──────────────────────

func (s *appealService) ListByAppraisal(ctx context.Context, actorID, appraisalID string) ([]dto.AppealResponse, error) {
	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("用户不存在")
		}
		return nil, err
	}
	appraisal, err := s.repo.Appraisal.GetByID(ctx, appraisalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("考核不存在")
		}
		return nil, err
	}

	if actor.UserID != appraisal.FacultyID && actor.Role != model.RoleAdmin {
		if _, err := ResolveEvaluatorAccess(actor, appraisal); err != nil {
			return nil, err
		}
	}

	appeals, err := s.repo.Appeal.ListByAppraisal(ctx, appraisalID)
	if err != nil {
		s.logger.Error("查询申诉记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AppealResponse, 0, len(appeals))
	for i := range appeals {
		result = append(result, *toAppealResponse(&appeals[i]))
	}
	return result, nil
}

func toAppealResponse(appeal *model.Appeal) *dto.AppealResponse {
	resp := &dto.AppealResponse{
		ID:             appeal.AppealID,
		AppraisalID:    appeal.AppraisalID,
		FacultyID:      appeal.FacultyID,
		Message:        appeal.Message,
		ResolutionNote: appeal.ResolutionNote,
		CreatedAt:      appeal.CreatedAt.Format(time.RFC3339),
	}
	if appeal.ResolvedBy != nil {
		resp.ResolvedBy = *appeal.ResolvedBy
	}
	if appeal.ResolvedAt != nil {
		resp.ResolvedAt = appeal.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}
