package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// AchievementHandler 业绩成果模块 HTTP 处理器
type AchievementHandler struct {
	achievementSvc service.AchievementService
}

// NewAchievementHandler 创建 AchievementHandler
func NewAchievementHandler(achievementSvc service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementSvc: achievementSvc}
}

// CreateAchievement 教师提交业绩成果
// POST /api/v1/achievements
func (h *AchievementHandler) CreateAchievement(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.achievementSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrAchievementLocked) {
			response.Conflict(c, 24001, "考核已进入不可编辑状态")
			return
		}
		response.DomainError(c, err)
		return
	}
	response.Created(c, result)
}

// ListAchievements 查询考核下的业绩成果
// GET /api/v1/appraisals/:id/achievements
func (h *AchievementHandler) ListAchievements(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.achievementSvc.ListByAppraisal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteAchievement 教师删除业绩成果
// DELETE /api/v1/achievements/:id
func (h *AchievementHandler) DeleteAchievement(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.achievementSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrAchievementNotFound):
			response.NotFound(c, 24002, "业绩成果不存在")
		case errors.Is(err, service.ErrAchievementLocked):
			response.Conflict(c, 24001, "考核已进入不可编辑状态")
		default:
			response.DomainError(c, err)
		}
		return
	}
	response.OK(c, nil)
}
