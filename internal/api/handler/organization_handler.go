package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/service"
	"faculty-appraisal/pkg/response"
)

// CollegeHandler 学院模块 HTTP 处理器
type CollegeHandler struct {
	collegeSvc service.CollegeService
}

// NewCollegeHandler 创建 CollegeHandler
func NewCollegeHandler(collegeSvc service.CollegeService) *CollegeHandler {
	return &CollegeHandler{collegeSvc: collegeSvc}
}

// CreateCollege 创建学院（管理员）
// POST /api/v1/colleges
func (h *CollegeHandler) CreateCollege(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.collegeSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCollegeNameExists) {
			response.Conflict(c, 21003, "学院名称已存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// GetCollege 查询学院
// GET /api/v1/colleges/:id
func (h *CollegeHandler) GetCollege(c *gin.Context) {
	result, err := h.collegeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCollegeNotFound) {
			response.NotFound(c, 21002, "学院不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListColleges 学院列表
// GET /api/v1/colleges
func (h *CollegeHandler) ListColleges(c *gin.Context) {
	result, err := h.collegeSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateCollege 更新学院（管理员）
// PUT /api/v1/colleges/:id
func (h *CollegeHandler) UpdateCollege(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.collegeSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCollegeNotFound):
			response.NotFound(c, 21002, "学院不存在")
		case errors.Is(err, service.ErrCollegeNameExists):
			response.Conflict(c, 21003, "学院名称已存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// DeleteCollege 删除学院（管理员）
// DELETE /api/v1/colleges/:id
func (h *CollegeHandler) DeleteCollege(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.collegeSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrCollegeNotFound):
			response.NotFound(c, 21002, "学院不存在")
		case errors.Is(err, service.ErrCollegeHasDepts):
			response.Conflict(c, 21004, "学院下仍有系，不能删除")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// DepartmentHandler 系模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// CreateDepartment 创建系（管理员）
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCollegeNotFound):
			response.NotFound(c, 21002, "学院不存在")
		case errors.Is(err, service.ErrDeptNameExists):
			response.Conflict(c, 21005, "系名称已存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// GetDepartment 查询系
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	result, err := h.deptSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDeptNotFound) {
			response.NotFound(c, 21001, "系不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListDepartments 系列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	var req dto.DepartmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.deptSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateDepartment 更新系（管理员）
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.deptSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeptNotFound):
			response.NotFound(c, 21001, "系不存在")
		case errors.Is(err, service.ErrDeptNameExists):
			response.Conflict(c, 21005, "系名称已存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// DeleteDepartment 删除系（管理员）
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrDeptNotFound):
			response.NotFound(c, 21001, "系不存在")
		case errors.Is(err, service.ErrDeptHasMembers):
			response.Conflict(c, 21006, "系下仍有成员，不能删除")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
