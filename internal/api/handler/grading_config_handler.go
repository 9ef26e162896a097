package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// GradingConfigHandler 计分配置模块 HTTP 处理器
type GradingConfigHandler struct {
	configSvc service.GradingConfigService
}

// NewGradingConfigHandler 创建 GradingConfigHandler
func NewGradingConfigHandler(configSvc service.GradingConfigService) *GradingConfigHandler {
	return &GradingConfigHandler{configSvc: configSvc}
}

// CreateConfig 创建计分配置（管理员）
// POST /api/v1/grading-configs
func (h *GradingConfigHandler) CreateConfig(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGradingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.configSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConfigCycleNotFound):
			response.NotFound(c, 22002, "考核周期不存在")
		case errors.Is(err, service.ErrConfigExists):
			response.Conflict(c, 23001, "该作用域已存在计分配置")
		default:
			response.DomainError(c, err)
		}
		return
	}
	response.Created(c, result)
}

// GetConfig 查询计分配置
// GET /api/v1/grading-configs/:id
func (h *GradingConfigHandler) GetConfig(c *gin.Context) {
	result, err := h.configSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// ListConfigs 计分配置列表
// GET /api/v1/grading-configs
func (h *GradingConfigHandler) ListConfigs(c *gin.Context) {
	result, err := h.configSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateConfig 更新计分配置（管理员）
// PUT /api/v1/grading-configs/:id
func (h *GradingConfigHandler) UpdateConfig(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateGradingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.configSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteConfig 删除计分配置（管理员，全局配置不可删）
// DELETE /api/v1/grading-configs/:id
func (h *GradingConfigHandler) DeleteConfig(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.configSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, nil)
}
