package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/repository"
	"faculty-appraisal/internal/rubric"
	"faculty-appraisal/pkg/apperrors"
)

// EvaluationService 评分业务接口。
//
// ScoreCriterion 是单次原子操作：读取当前评价记录与考核状态 → 归档折分 →
// 覆盖写入该 (考核, 角色) 的评价记录 → 同步考核总分与状态，全部落在
// 同一事务边界内。状态为 NEW 时的首次评分写入会静默将其推进为
// IN_REVIEW，且每个考核恰好发生一次。
type EvaluationService interface {
	// ResolveAccess 解析操作人对目标考核的评分权限
	ResolveAccess(ctx context.Context, actorID, appraisalID string) (*dto.EvaluatorAccessResponse, error)
	// ScoreCriterion 对单个维度评分（覆盖写，幂等）
	ScoreCriterion(ctx context.Context, actorID, appraisalID string, req *dto.ScoreCriterionRequest) (*dto.ScoreCriterionResponse, error)
	// ListByAppraisal 查询考核下的评价记录
	ListByAppraisal(ctx context.Context, actorID, appraisalID string) ([]dto.EvaluationResponse, error)
	// SuggestObservation 计次类维度的建议观测值（业绩成果分类计数）
	SuggestObservation(ctx context.Context, appraisalID string, criterion model.Criterion) (*dto.SuggestedObservationResponse, error)
}

type evaluationService struct {
	repo      *repository.Repository
	gradingSvc GradingConfigService
	logger    *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, gradingSvc GradingConfigService, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, gradingSvc: gradingSvc, logger: logger}
}

// ────────────────────── ResolveAccess ──────────────────────

func (s *evaluationService) ResolveAccess(ctx context.Context, actorID, appraisalID string) (*dto.EvaluatorAccessResponse, error) {
	actor, appraisal, err := s.loadActorAndAppraisal(ctx, actorID, appraisalID)
	if err != nil {
		return nil, err
	}

	role, err := ResolveEvaluatorAccess(actor, appraisal)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindForbidden) {
			return &dto.EvaluatorAccessResponse{Authorized: false}, nil
		}
		return nil, err
	}
	return &dto.EvaluatorAccessResponse{Authorized: true, Role: string(role)}, nil
}

// ────────────────────── ScoreCriterion ──────────────────────

func (s *evaluationService) ScoreCriterion(ctx context.Context, actorID, appraisalID string, req *dto.ScoreCriterionRequest) (*dto.ScoreCriterionResponse, error) {
	criterion := model.Criterion(req.Criterion)
	if !criterion.Valid() {
		return nil, apperrors.InvalidInput("未知的考核维度 " + req.Criterion)
	}

	actor, appraisal, err := s.loadActorAndAppraisal(ctx, actorID, appraisalID)
	if err != nil {
		return nil, err
	}

	// 权限每次评分调用重新解析，不跨请求缓存
	role, err := ResolveEvaluatorAccess(actor, appraisal)
	if err != nil {
		return nil, err
	}

	if !appraisal.Status.Scorable() {
		return nil, apperrors.InvalidState("当前状态不允许评分")
	}

	cfg, err := s.gradingSvc.Resolve(ctx, appraisal.CycleID)
	if err != nil {
		return nil, err
	}

	// 读取已有评价记录并在其上合并（其他维度字段保留，不被覆盖）
	eval, err := s.repo.Evaluation.GetByAppraisalAndRole(ctx, appraisalID, role)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询评价记录失败", zap.Error(err))
			return nil, err
		}
		eval = &model.Evaluation{AppraisalID: appraisalID, Role: role}
		eval.CreatedBy = &actorID
	}

	band, points, explanation, err := s.applyCriterion(eval, criterion, req, cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	eval.TotalScore = eval.ComputeTotal()
	eval.EvaluatedBy = actorID
	eval.EvaluatedAt = &now
	eval.UpdatedBy = &actorID

	// 首次评分写入将 NEW 静默推进为 IN_REVIEW（仅这一次）
	if appraisal.Status == model.StatusNew {
		appraisal.Status = model.StatusInReview
	}
	appraisal.UpdatedBy = &actorID

	// 总分与考核行分量由仓储按事务内合并后的行同步，这里只声明触达的列
	if err := s.repo.Evaluation.UpsertWithAppraisal(ctx, eval, criterion.ScoreColumns(), appraisal); err != nil {
		s.logger.Error("写入评价记录失败",
			zap.String("appraisal_id", appraisalID),
			zap.String("role", string(role)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("维度评分完成",
		zap.String("appraisal_id", appraisalID),
		zap.String("role", string(role)),
		zap.String("criterion", string(criterion)),
		zap.String("band", string(band)),
		zap.Float64("points", points))

	return &dto.ScoreCriterionResponse{
		Criterion:   string(criterion),
		Band:        string(band),
		Points:      points,
		Explanation: explanation,
		TotalScore:  eval.TotalScore,
		Status:      string(appraisal.Status),
	}, nil
}

// applyCriterion 按维度类型归档折分并写入评价记录的对应字段。
// 归类规则见 internal/rubric；观测值缺失或类型不匹配按 InvalidInput 上报。
func (s *evaluationService) applyCriterion(eval *model.Evaluation, criterion model.Criterion, req *dto.ScoreCriterionRequest, cfg *model.GradingConfig) (model.Band, float64, string, error) {
	switch criterion {
	case model.CriterionUniversityService, model.CriterionCommunityService:
		if req.Count == nil {
			return "", 0, "", apperrors.InvalidInput("计次类维度需要提供 count 观测值")
		}
		band := rubric.ClassifyCount(*req.Count)
		points := rubric.CountPoints(*req.Count, cfg.ServicePointsPerItem, cfg.ServiceMaxPoints)
		explanation := fmt.Sprintf("计 %d 项，档位 %s，得分 %.2f", *req.Count, band, points)
		if criterion == model.CriterionUniversityService {
			eval.UniversityServicePoints = &points
			eval.UniversityServiceBand = &band
			eval.UniversityServiceComment = req.Comment
		} else {
			eval.CommunityServicePoints = &points
			eval.CommunityServiceBand = &band
			eval.CommunityServiceComment = req.Comment
		}
		return band, points, explanation, nil

	case model.CriterionTeaching:
		if req.Percentage == nil {
			return "", 0, "", apperrors.InvalidInput("教学质量维度需要提供 percentage 观测值")
		}
		band := rubric.ClassifyPercent(*req.Percentage)
		// 配置了教学档位表时按表取分，否则按权重比例折分（两者对默认配置等价）
		var points float64
		if len(cfg.TeachingBands) > 0 {
			points = cfg.TeachingBands[band]
		} else {
			points = rubric.BandPoints(band, cfg.TeachingWeight)
		}
		explanation := fmt.Sprintf("评教均分 %.2f%%，档位 %s，得分 %.2f", *req.Percentage, band, points)
		eval.TeachingPoints = &points
		eval.TeachingBand = &band
		eval.TeachingComment = req.Comment
		return band, points, explanation, nil

	case model.CriterionResearch:
		if req.Activities == nil {
			return "", 0, "", apperrors.InvalidInput("科研维度需要提供 activities 观测值")
		}
		points, band := rubric.ResearchPoints(req.Activities, cfg.ResearchActivityPoints, cfg.ResearchWeight)
		explanation := fmt.Sprintf("科研活动 %d 项，档位 %s，得分 %.2f（权重 %.0f 封顶）",
			len(req.Activities), band, points, cfg.ResearchWeight)
		eval.ResearchPoints = &points
		eval.ResearchBand = &band
		eval.ResearchComment = req.Comment
		return band, points, explanation, nil

	case model.CriterionCapabilities:
		if req.CapabilityPicks == nil {
			return "", 0, "", apperrors.InvalidInput("能力素养维度需要提供五个子维度选档")
		}
		picks := []model.Band{
			model.Band(req.CapabilityPicks.Communication),
			model.Band(req.CapabilityPicks.Teamwork),
			model.Band(req.CapabilityPicks.Responsibility),
			model.Band(req.CapabilityPicks.Innovation),
			model.Band(req.CapabilityPicks.Professional),
		}
		for _, b := range picks {
			if !b.Valid() {
				return "", 0, "", apperrors.InvalidInput("未知的档位选择 " + string(b))
			}
		}
		total, overall := rubric.CapabilityTotal(picks)
		explanation := fmt.Sprintf("五项子维度合计 %.0f 分，总档位 %s", total, overall)
		eval.CapabilityPoints = &total
		eval.CapabilityBand = &overall
		eval.CapabilityComment = req.Comment
		eval.CapabilityRubric = &model.CapabilityRubric{
			Communication:  picks[0],
			Teamwork:       picks[1],
			Responsibility: picks[2],
			Innovation:     picks[3],
			Professional:   picks[4],
			Total:          total,
			OverallBand:    overall,
		}
		return overall, total, explanation, nil

	default:
		return "", 0, "", apperrors.InvalidInput("未知的考核维度 " + string(criterion))
	}
}

// ────────────────────── ListByAppraisal ──────────────────────

func (s *evaluationService) ListByAppraisal(ctx context.Context, actorID, appraisalID string) ([]dto.EvaluationResponse, error) {
	actor, appraisal, err := s.loadActorAndAppraisal(ctx, actorID, appraisalID)
	if err != nil {
		return nil, err
	}

	// 本人、评价人、管理员可读
	if actor.UserID != appraisal.FacultyID && actor.Role != model.RoleAdmin {
		if _, err := ResolveEvaluatorAccess(actor, appraisal); err != nil {
			return nil, err
		}
	}

	evals, err := s.repo.Evaluation.ListByAppraisal(ctx, appraisalID)
	if err != nil {
		s.logger.Error("查询评价记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EvaluationResponse, 0, len(evals))
	for i := range evals {
		result = append(result, *toEvaluationResponse(&evals[i]))
	}
	return result, nil
}

// ────────────────────── SuggestObservation ──────────────────────

func (s *evaluationService) SuggestObservation(ctx context.Context, appraisalID string, criterion model.Criterion) (*dto.SuggestedObservationResponse, error) {
	if !criterion.Valid() {
		return nil, apperrors.InvalidInput("未知的考核维度 " + string(criterion))
	}
	count, err := s.repo.Achievement.CountByCategory(ctx, appraisalID, criterion)
	if err != nil {
		return nil, err
	}
	return &dto.SuggestedObservationResponse{
		Criterion: string(criterion),
		Count:     count,
	}, nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *evaluationService) loadActorAndAppraisal(ctx context.Context, actorID, appraisalID string) (*model.User, *model.Appraisal, error) {
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

func toCriterionItem(points *float64, band *model.Band, comment string) dto.CriterionScoreItem {
	item := dto.CriterionScoreItem{Points: points, Comment: comment}
	if band != nil {
		item.Band = string(*band)
	}
	return item
}

func toEvaluationResponse(eval *model.Evaluation) *dto.EvaluationResponse {
	resp := &dto.EvaluationResponse{
		ID:                eval.EvaluationID,
		AppraisalID:       eval.AppraisalID,
		Role:              string(eval.Role),
		Research:          toCriterionItem(eval.ResearchPoints, eval.ResearchBand, eval.ResearchComment),
		Teaching:          toCriterionItem(eval.TeachingPoints, eval.TeachingBand, eval.TeachingComment),
		UniversityService: toCriterionItem(eval.UniversityServicePoints, eval.UniversityServiceBand, eval.UniversityServiceComment),
		CommunityService:  toCriterionItem(eval.CommunityServicePoints, eval.CommunityServiceBand, eval.CommunityServiceComment),
		Capability:        toCriterionItem(eval.CapabilityPoints, eval.CapabilityBand, eval.CapabilityComment),
		TotalScore:        eval.TotalScore,
		EvaluatedBy:       eval.EvaluatedBy,
	}
	if eval.CapabilityRubric != nil {
		resp.CapabilityRubric = eval.CapabilityRubric
	}
	if eval.EvaluatedAt != nil {
		resp.EvaluatedAt = eval.EvaluatedAt.Format(time.RFC3339)
	}
	return resp
}
