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

// ── 业绩成果模块业务错误 ──

var (
	ErrAchievementNotFound = errors.New("业绩成果不存在")
	ErrAchievementLocked   = errors.New("考核已进入不可编辑状态，不能调整业绩成果")
)

// AchievementService 业绩成果业务接口。
// 仅考核处于可评分状态（即成绩未发送）时允许教师增删改成果。
type AchievementService interface {
	Create(ctx context.Context, facultyID string, req *dto.CreateAchievementRequest) (*dto.AchievementResponse, error)
	ListByAppraisal(ctx context.Context, actorID, appraisalID string) ([]dto.AchievementResponse, error)
	Delete(ctx context.Context, facultyID, achievementID string) error
}

type achievementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAchievementService 创建 AchievementService 实例
func NewAchievementService(repo *repository.Repository, logger *zap.Logger) AchievementService {
	return &achievementService{repo: repo, logger: logger}
}

func (s *achievementService) Create(ctx context.Context, facultyID string, req *dto.CreateAchievementRequest) (*dto.AchievementResponse, error) {
	appraisal, err := s.repo.Appraisal.GetByID(ctx, req.AppraisalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("考核不存在")
		}
		return nil, err
	}
	if appraisal.FacultyID != facultyID {
		return nil, apperrors.Forbidden("仅本人可提交业绩成果")
	}
	if !appraisal.Status.Scorable() {
		return nil, ErrAchievementLocked
	}

	achievement := &model.Achievement{
		AppraisalID:  req.AppraisalID,
		Category:     model.Criterion(req.Category),
		ActivityType: req.ActivityType,
		Title:        req.Title,
		Description:  req.Description,
		EvidenceURL:  req.EvidenceURL,
	}
	if req.AchievedAt != "" {
		t, err := time.Parse("2006-01-02", req.AchievedAt)
		if err != nil {
			return nil, apperrors.InvalidInput("achieved_at 日期格式错误，应为 YYYY-MM-DD")
		}
		achievement.AchievedAt = &t
	}
	achievement.CreatedBy = &facultyID

	if err := s.repo.Achievement.Create(ctx, achievement); err != nil {
		s.logger.Error("提交业绩成果失败", zap.Error(err))
		return nil, err
	}
	return toAchievementResponse(achievement), nil
}

func (s *achievementService) ListByAppraisal(ctx context.Context, actorID, appraisalID string) ([]dto.AchievementResponse, error) {
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

	achievements, err := s.repo.Achievement.ListByAppraisal(ctx, appraisalID)
	if err != nil {
		s.logger.Error("查询业绩成果失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AchievementResponse, 0, len(achievements))
	for i := range achievements {
		result = append(result, *toAchievementResponse(&achievements[i]))
	}
	return result, nil
}

func (s *achievementService) Delete(ctx context.Context, facultyID, achievementID string) error {
	achievement, err := s.repo.Achievement.GetByID(ctx, achievementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAchievementNotFound
		}
		return err
	}

	appraisal, err := s.repo.Appraisal.GetByID(ctx, achievement.AppraisalID)
	if err != nil {
		return err
	}
	if appraisal.FacultyID != facultyID {
		return apperrors.Forbidden("仅本人可删除业绩成果")
	}
	if !appraisal.Status.Scorable() {
		return ErrAchievementLocked
	}

	if err := s.repo.Achievement.Delete(ctx, achievementID, facultyID); err != nil {
		s.logger.Error("删除业绩成果失败", zap.String("id", achievementID), zap.Error(err))
		return err
	}
	return nil
}

func toAchievementResponse(achievement *model.Achievement) *dto.AchievementResponse {
	resp := &dto.AchievementResponse{
		ID:           achievement.AchievementID,
		AppraisalID:  achievement.AppraisalID,
		Category:     string(achievement.Category),
		ActivityType: achievement.ActivityType,
		Title:        achievement.Title,
		Description:  achievement.Description,
		EvidenceURL:  achievement.EvidenceURL,
		CreatedAt:    achievement.CreatedAt.Format(time.RFC3339),
	}
	if achievement.AchievedAt != nil {
		resp.AchievedAt = achievement.AchievedAt.Format("2006-01-02")
	}
	return resp
}
