package service

import (
	"go.uber.org/zap"

	"faculty-appraisal/config"
	"faculty-appraisal/internal/repository"
	"faculty-appraisal/pkg/jwt"
	"faculty-appraisal/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	User          UserService
	College       CollegeService
	Department    DepartmentService
	Cycle         CycleService
	GradingConfig GradingConfigService
	Appraisal     AppraisalService
	Evaluation    EvaluationService
	Appeal        AppealService
	Achievement   AchievementService
	Export        ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	gradingSvc := NewGradingConfigService(repo, logger)
	return &Service{
		Auth:          NewAuthService(repo, jwtMgr, rdb, &cfg.Auth, logger),
		User:          NewUserService(repo, logger),
		College:       NewCollegeService(repo, logger),
		Department:    NewDepartmentService(repo, logger),
		Cycle:         NewCycleService(repo, logger),
		GradingConfig: gradingSvc,
		Appraisal:     NewAppraisalService(repo, logger),
		Evaluation:    NewEvaluationService(repo, gradingSvc, logger),
		Appeal:        NewAppealService(repo, logger),
		Achievement:   NewAchievementService(repo, logger),
		Export:        NewExportService(repo, logger),
	}
}
