package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCycleResults 导出周期考核结果
// GET /api/v1/export/appraisals?cycle_id=xxx
func (h *ExportHandler) ExportCycleResults(c *gin.Context) {
	cycleID := c.Query("cycle_id")
	if cycleID == "" {
		response.BadRequest(c, 10001, "cycle_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportCycleResults(c.Request.Context(), cycleID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 22002, "考核周期不存在")
	case errors.Is(err, service.ErrExportNoAppraisals):
		response.NotFound(c, 25001, "该周期暂无考核记录")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
