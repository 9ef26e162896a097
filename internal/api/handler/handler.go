package handler

import "faculty-appraisal/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	User          *UserHandler
	College       *CollegeHandler
	Department    *DepartmentHandler
	Cycle         *CycleHandler
	GradingConfig *GradingConfigHandler
	Appraisal     *AppraisalHandler
	Evaluation    *EvaluationHandler
	Appeal        *AppealHandler
	Achievement   *AchievementHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		User:          NewUserHandler(svc.User),
		College:       NewCollegeHandler(svc.College),
		Department:    NewDepartmentHandler(svc.Department),
		Cycle:         NewCycleHandler(svc.Cycle),
		GradingConfig: NewGradingConfigHandler(svc.GradingConfig),
		Appraisal:     NewAppraisalHandler(svc.Appraisal),
		Evaluation:    NewEvaluationHandler(svc.Evaluation),
		Appeal:        NewAppealHandler(svc.Appeal),
		Achievement:   NewAchievementHandler(svc.Achievement),
		Export:        NewExportHandler(svc.Export),
	}
}
