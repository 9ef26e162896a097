package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/repository"
	"faculty-appraisal/pkg/apperrors"
)

// ── 计分配置模块业务错误 ──

var (
	ErrConfigCycleNotFound = errors.New("周期不存在")
	ErrConfigExists        = errors.New("该作用域已存在计分配置")
)

// GradingConfigService 计分配置业务接口。
// Resolve 的优先级：周期专属 > 全局；二者皆缺按 ConfigMissing 上报，
// 该周期的任何评分调用都应失败而非静默取默认值。
type GradingConfigService interface {
	Create(ctx context.Context, req *dto.CreateGradingConfigRequest, callerID string) (*dto.GradingConfigResponse, error)
	GetByID(ctx context.Context, id string) (*dto.GradingConfigResponse, error)
	List(ctx context.Context) ([]dto.GradingConfigResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateGradingConfigRequest, callerID string) (*dto.GradingConfigResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Resolve 解析指定周期生效的计分配置
	Resolve(ctx context.Context, cycleID string) (*model.GradingConfig, error)
}

type gradingConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGradingConfigService 创建 GradingConfigService 实例
func NewGradingConfigService(repo *repository.Repository, logger *zap.Logger) GradingConfigService {
	return &gradingConfigService{repo: repo, logger: logger}
}

// validateConfig 校验计分配置：
//   - 四维度权重必须合计 100（不容忍漂移）
//   - 教学档位表若提供必须覆盖全部五档
//   - 档位键必须属于封闭集合
func validateConfig(cfg *model.GradingConfig) error {
	if cfg.WeightSum() != 100 {
		return apperrors.InvalidInput("四个维度权重必须合计 100")
	}
	if cfg.ServicePointsPerItem <= 0 || cfg.ServiceMaxPoints <= 0 {
		return apperrors.InvalidInput("计次分值与上限必须为正数")
	}
	if len(cfg.TeachingBands) > 0 {
		for _, band := range []model.Band{
			model.BandHigh, model.BandExceeds, model.BandMeets,
			model.BandPartial, model.BandNeeds,
		} {
			if _, ok := cfg.TeachingBands[band]; !ok {
				return apperrors.InvalidInput("教学档位表必须覆盖全部五个档位")
			}
		}
		for band := range cfg.TeachingBands {
			if !band.Valid() {
				return apperrors.InvalidInput("教学档位表包含未知档位 " + string(band))
			}
		}
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *gradingConfigService) Create(ctx context.Context, req *dto.CreateGradingConfigRequest, callerID string) (*dto.GradingConfigResponse, error) {
	cfg := &model.GradingConfig{
		Scope:                   model.ScopeGlobal,
		ResearchWeight:          req.ResearchWeight,
		TeachingWeight:          req.TeachingWeight,
		UniversityServiceWeight: req.UniversityServiceWeight,
		CommunityServiceWeight:  req.CommunityServiceWeight,
		ServicePointsPerItem:    req.ServicePointsPerItem,
		ServiceMaxPoints:        req.ServiceMaxPoints,
		TeachingBands:           toBandPointsMap(req.TeachingBands),
		ResearchActivityPoints:  model.PointsMap(req.ResearchActivityPoints),
	}
	cfg.CreatedBy = &callerID
	cfg.UpdatedBy = &callerID

	if req.CycleID != nil {
		if _, err := s.repo.Cycle.GetByID(ctx, *req.CycleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrConfigCycleNotFound
			}
			return nil, err
		}
		cfg.Scope = model.ScopeCycle
		cfg.CycleID = req.CycleID
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	// 同作用域唯一
	if cfg.Scope == model.ScopeCycle {
		if _, err := s.repo.GradingConfig.GetByCycle(ctx, *cfg.CycleID); err == nil {
			return nil, ErrConfigExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		if _, err := s.repo.GradingConfig.GetGlobal(ctx); err == nil {
			return nil, ErrConfigExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := s.repo.GradingConfig.Create(ctx, cfg); err != nil {
		s.logger.Error("创建计分配置失败", zap.Error(err))
		return nil, err
	}

	return s.toConfigResponse(cfg), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *gradingConfigService) GetByID(ctx context.Context, id string) (*dto.GradingConfigResponse, error) {
	cfg, err := s.repo.GradingConfig.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("计分配置不存在")
		}
		return nil, err
	}
	return s.toConfigResponse(cfg), nil
}

func (s *gradingConfigService) List(ctx context.Context) ([]dto.GradingConfigResponse, error) {
	cfgs, err := s.repo.GradingConfig.List(ctx)
	if err != nil {
		s.logger.Error("查询计分配置列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.GradingConfigResponse, 0, len(cfgs))
	for i := range cfgs {
		result = append(result, *s.toConfigResponse(&cfgs[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *gradingConfigService) Update(ctx context.Context, id string, req *dto.UpdateGradingConfigRequest, callerID string) (*dto.GradingConfigResponse, error) {
	cfg, err := s.repo.GradingConfig.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("计分配置不存在")
		}
		return nil, err
	}

	if req.ResearchWeight != nil {
		cfg.ResearchWeight = *req.ResearchWeight
	}
	if req.TeachingWeight != nil {
		cfg.TeachingWeight = *req.TeachingWeight
	}
	if req.UniversityServiceWeight != nil {
		cfg.UniversityServiceWeight = *req.UniversityServiceWeight
	}
	if req.CommunityServiceWeight != nil {
		cfg.CommunityServiceWeight = *req.CommunityServiceWeight
	}
	if req.ServicePointsPerItem != nil {
		cfg.ServicePointsPerItem = *req.ServicePointsPerItem
	}
	if req.ServiceMaxPoints != nil {
		cfg.ServiceMaxPoints = *req.ServiceMaxPoints
	}
	if req.TeachingBands != nil {
		cfg.TeachingBands = toBandPointsMap(req.TeachingBands)
	}
	if req.ResearchActivityPoints != nil {
		cfg.ResearchActivityPoints = model.PointsMap(req.ResearchActivityPoints)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	cfg.UpdatedBy = &callerID
	if err := s.repo.GradingConfig.Update(ctx, cfg); err != nil {
		s.logger.Error("更新计分配置失败", zap.Error(err))
		return nil, err
	}

	return s.toConfigResponse(cfg), nil
}

// ────────────────────── Delete ──────────────────────

func (s *gradingConfigService) Delete(ctx context.Context, id string, callerID string) error {
	cfg, err := s.repo.GradingConfig.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("计分配置不存在")
		}
		return err
	}
	// 全局配置是评分兜底，不允许删除
	if cfg.Scope == model.ScopeGlobal {
		return apperrors.InvalidState("全局计分配置不允许删除")
	}
	return s.repo.GradingConfig.Delete(ctx, id, callerID)
}

// ────────────────────── Resolve ──────────────────────

func (s *gradingConfigService) Resolve(ctx context.Context, cycleID string) (*model.GradingConfig, error) {
	cfg, err := s.repo.GradingConfig.GetByCycle(ctx, cycleID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg, err = s.repo.GradingConfig.GetGlobal(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ConfigMissing("该周期无可用的计分配置")
		}
		return nil, err
	}
	return cfg, nil
}

// ────────────────────── 响应转换 ──────────────────────

func toBandPointsMap(m map[string]float64) model.BandPointsMap {
	if m == nil {
		return nil
	}
	out := make(model.BandPointsMap, len(m))
	for k, v := range m {
		out[model.Band(k)] = v
	}
	return out
}

func (s *gradingConfigService) toConfigResponse(cfg *model.GradingConfig) *dto.GradingConfigResponse {
	bands := make(map[string]float64, len(cfg.TeachingBands))
	for k, v := range cfg.TeachingBands {
		bands[string(k)] = v
	}
	return &dto.GradingConfigResponse{
		ID:                      cfg.ConfigID,
		Scope:                   string(cfg.Scope),
		CycleID:                 cfg.CycleID,
		ResearchWeight:          cfg.ResearchWeight,
		TeachingWeight:          cfg.TeachingWeight,
		UniversityServiceWeight: cfg.UniversityServiceWeight,
		CommunityServiceWeight:  cfg.CommunityServiceWeight,
		ServicePointsPerItem:    cfg.ServicePointsPerItem,
		ServiceMaxPoints:        cfg.ServiceMaxPoints,
		TeachingBands:           bands,
		ResearchActivityPoints:  map[string]float64(cfg.ResearchActivityPoints),
	}
}
