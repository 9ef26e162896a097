package dto

// ── 申诉模块 DTO ──

// RaiseAppealRequest 发起申诉请求
type RaiseAppealRequest struct {
	Message string `json:"message" binding:"required,min=5,max=2000"`
}

// ResolveAppealRequest 裁决申诉请求
type ResolveAppealRequest struct {
	ResolutionNote string `json:"resolution_note" binding:"omitempty,max=2000"`
}

// AppealResponse 申诉信息响应
type AppealResponse struct {
	ID             string `json:"id"`
	AppraisalID    string `json:"appraisal_id"`
	FacultyID      string `json:"faculty_id"`
	Message        string `json:"message"`
	ResolutionNote string `json:"resolution_note,omitempty"`
	ResolvedBy     string `json:"resolved_by,omitempty"`
	ResolvedAt     string `json:"resolved_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}
