package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// CycleHandler 考核周期模块 HTTP 处理器
type CycleHandler struct {
	cycleSvc service.CycleService
}

// NewCycleHandler 创建 CycleHandler
func NewCycleHandler(cycleSvc service.CycleService) *CycleHandler {
	return &CycleHandler{cycleSvc: cycleSvc}
}

// CreateCycle 创建考核周期（管理员）
// POST /api/v1/cycles
func (h *CycleHandler) CreateCycle(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.cycleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCycleDateFormat) || errors.Is(err, service.ErrCycleBadDates) {
			response.BadRequest(c, 22001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// GetCycle 查询考核周期
// GET /api/v1/cycles/:id
func (h *CycleHandler) GetCycle(c *gin.Context) {
	result, err := h.cycleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 22002, "考核周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetCurrentCycle 查询当前启用的考核周期
// GET /api/v1/cycles/current
func (h *CycleHandler) GetCurrentCycle(c *gin.Context) {
	result, err := h.cycleSvc.GetCurrent(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoCurrentCycle) {
			response.NotFound(c, 22003, "当前没有启用的考核周期")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListCycles 考核周期列表
// GET /api/v1/cycles
func (h *CycleHandler) ListCycles(c *gin.Context) {
	result, err := h.cycleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateCycle 更新考核周期（管理员）
// PUT /api/v1/cycles/:id
func (h *CycleHandler) UpdateCycle(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.cycleSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCycleNotFound):
			response.NotFound(c, 22002, "考核周期不存在")
		case errors.Is(err, service.ErrCycleDateFormat), errors.Is(err, service.ErrCycleBadDates):
			response.BadRequest(c, 22001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ActivateCycle 启用考核周期（管理员，全局至多一个启用）
// POST /api/v1/cycles/:id/activate
func (h *CycleHandler) ActivateCycle(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.cycleSvc.Activate(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 22002, "考核周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// DeleteCycle 删除考核周期（管理员）
// DELETE /api/v1/cycles/:id
func (h *CycleHandler) DeleteCycle(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.cycleSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 22002, "考核周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
