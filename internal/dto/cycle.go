package dto

// ── 考核周期模块 DTO ──

// CreateCycleRequest 创建考核周期请求
type CreateCycleRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	AcademicYear string `json:"academic_year" binding:"required,max=20"`
	StartDate    string `json:"start_date"    binding:"required"` // "2025-09-01"
	EndDate      string `json:"end_date"      binding:"required"` // "2026-07-10"
}

// UpdateCycleRequest 更新考核周期请求
type UpdateCycleRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,max=20"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
}

// CycleResponse 考核周期响应
type CycleResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
