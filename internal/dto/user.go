package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Name         string  `json:"name"          binding:"required,min=2,max=50"`
	EmployeeID   string  `json:"employee_id"   binding:"required"`
	Email        string  `json:"email"         binding:"required,email"`
	Role         string  `json:"role"          binding:"required,oneof=ADMIN DEAN HOD INSTRUCTOR"`
	Title        string  `json:"title"         binding:"omitempty,max=50"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	CollegeID    *string `json:"college_id"    binding:"omitempty,uuid"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=50"`
	Email        *string `json:"email"         binding:"omitempty,email"`
	Title        *string `json:"title"         binding:"omitempty,max=50"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	CollegeID    *string `json:"college_id"    binding:"omitempty,uuid"`
}

// AssignRoleRequest 角色调整请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN DEAN HOD INSTRUCTOR"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	CollegeID    string `form:"college_id"    binding:"omitempty,uuid"`
	Role         string `form:"role"          binding:"omitempty,oneof=ADMIN DEAN HOD INSTRUCTOR"`
	Keyword      string `form:"keyword"       binding:"omitempty,max=50"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	EmployeeID         string              `json:"employee_id"`
	Email              string              `json:"email"`
	Role               string              `json:"role"`
	Title              string              `json:"title,omitempty"`
	Department         *DepartmentResponse `json:"department,omitempty"`
	College            *CollegeResponse    `json:"college,omitempty"`
	MustChangePassword bool                `json:"must_change_password"`
}

// CreateUserResponse 创建用户响应（含初始密码，仅此一次下发）
type CreateUserResponse struct {
	User         *UserResponse `json:"user"`
	TempPassword string        `json:"temp_password"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// ImportUserResponse 批量导入响应
type ImportUserResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
