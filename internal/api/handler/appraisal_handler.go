package handler

import (
	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// AppraisalHandler 考核模块 HTTP 处理器
type AppraisalHandler struct {
	appraisalSvc service.AppraisalService
}

// NewAppraisalHandler 创建 AppraisalHandler
func NewAppraisalHandler(appraisalSvc service.AppraisalService) *AppraisalHandler {
	return &AppraisalHandler{appraisalSvc: appraisalSvc}
}

// CreateAppraisal 教师发起考核
// POST /api/v1/appraisals
func (h *AppraisalHandler) CreateAppraisal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAppraisalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.appraisalSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Created(c, result)
}

// GetAppraisal 查询考核详情
// GET /api/v1/appraisals/:id
func (h *AppraisalHandler) GetAppraisal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.appraisalSvc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// ListAppraisals 考核列表（按操作人角色限定可见范围）
// GET /api/v1/appraisals
func (h *AppraisalHandler) ListAppraisals(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AppraisalListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, total, err := h.appraisalSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OKPage(c, result, total, req.GetPage(), req.GetPageSize())
}

// SubmitAppraisal 教师提交自评材料
// POST /api/v1/appraisals/:id/submit
func (h *AppraisalHandler) SubmitAppraisal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.appraisalSvc.Submit(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// SendScores 评价人发送成绩
// POST /api/v1/appraisals/:id/send-scores
func (h *AppraisalHandler) SendScores(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.appraisalSvc.SendScores(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// ApproveAppraisal 教师确认成绩，考核进入终态
// POST /api/v1/appraisals/:id/approve
func (h *AppraisalHandler) ApproveAppraisal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.appraisalSvc.Approve(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}
