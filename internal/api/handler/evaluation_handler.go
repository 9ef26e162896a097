package handler

import (
	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// EvaluationHandler 评分模块 HTTP 处理器
type EvaluationHandler struct {
	evalSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evalSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evalSvc: evalSvc}
}

// ResolveAccess 解析当前用户对考核的评分权限
// GET /api/v1/appraisals/:id/access
func (h *EvaluationHandler) ResolveAccess(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.evalSvc.ResolveAccess(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// ScoreCriterion 对单个维度评分（覆盖写，重复提交幂等）
// PUT /api/v1/appraisals/:id/score
func (h *EvaluationHandler) ScoreCriterion(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ScoreCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.evalSvc.ScoreCriterion(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// ListEvaluations 查询考核下的评价记录
// GET /api/v1/appraisals/:id/evaluations
func (h *EvaluationHandler) ListEvaluations(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.evalSvc.ListByAppraisal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// SuggestObservation 计次类维度的建议观测值
// GET /api/v1/appraisals/:id/suggest?criterion=university_service
func (h *EvaluationHandler) SuggestObservation(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}

	criterion := model.Criterion(c.Query("criterion"))
	result, err := h.evalSvc.SuggestObservation(c.Request.Context(), c.Param("id"), criterion)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}
