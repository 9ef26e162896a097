package dto

// ── 学院 / 系模块 DTO ──

// CreateCollegeRequest 创建学院请求
type CreateCollegeRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=200"`
}

// UpdateCollegeRequest 更新学院请求
type UpdateCollegeRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
}

// CollegeResponse 学院信息响应
type CollegeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateDepartmentRequest 创建系请求
type CreateDepartmentRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	CollegeID   string `json:"college_id"  binding:"required,uuid"`
	Description string `json:"description" binding:"omitempty,max=200"`
}

// UpdateDepartmentRequest 更新系请求
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
}

// DepartmentListRequest 系列表查询参数
type DepartmentListRequest struct {
	CollegeID string `form:"college_id" binding:"omitempty,uuid"`
}

// DepartmentResponse 系信息响应
type DepartmentResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	IsActive    bool             `json:"is_active"`
	College     *CollegeResponse `json:"college,omitempty"`
	MemberCount int64            `json:"member_count,omitempty"`
}
