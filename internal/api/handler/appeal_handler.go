package handler

import (
	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// AppealHandler 申诉模块 HTTP 处理器
type AppealHandler struct {
	appealSvc service.AppealService
}

// NewAppealHandler 创建 AppealHandler
func NewAppealHandler(appealSvc service.AppealService) *AppealHandler {
	return &AppealHandler{appealSvc: appealSvc}
}

// RaiseAppeal 教师发起申诉
// POST /api/v1/appraisals/:id/appeals
func (h *AppealHandler) RaiseAppeal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RaiseAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.appealSvc.Raise(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Created(c, result)
}

// ResolveAppeal 评价人裁决申诉
// POST /api/v1/appeals/:id/resolve
func (h *AppealHandler) ResolveAppeal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ResolveAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.appealSvc.Resolve(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// ListAppeals 查询考核下的申诉记录
// GET /api/v1/appraisals/:id/appeals
func (h *AppealHandler) ListAppeals(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.appealSvc.ListByAppraisal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}
