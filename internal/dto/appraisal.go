package dto

// ── 考核模块 DTO ──

// CreateAppraisalRequest 创建考核请求（教师本人发起，周期内至多一条）
type CreateAppraisalRequest struct {
	CycleID string `json:"cycle_id" binding:"required,uuid"`
}

// AppraisalListRequest 考核列表查询参数
type AppraisalListRequest struct {
	PaginationRequest
	CycleID string `form:"cycle_id" binding:"omitempty,uuid"`
	Status  string `form:"status"   binding:"omitempty,oneof=NEW IN_REVIEW SCORES_SENT RETURNED COMPLETE"`
}

// AppraisalResponse 考核信息响应
type AppraisalResponse struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	Faculty        *UserResponse  `json:"faculty,omitempty"`
	Cycle          *CycleResponse `json:"cycle,omitempty"`
	ResearchScore          *float64 `json:"research_score,omitempty"`
	TeachingScore          *float64 `json:"teaching_score,omitempty"`
	UniversityServiceScore *float64 `json:"university_service_score,omitempty"`
	CommunityServiceScore  *float64 `json:"community_service_score,omitempty"`
	TotalScore             *float64 `json:"total_score,omitempty"`
	SubmittedAt    string `json:"submitted_at,omitempty"`
	HODReviewedAt  string `json:"hod_reviewed_at,omitempty"`
	DeanReviewedAt string `json:"dean_reviewed_at,omitempty"`
	CompletedAt    string `json:"completed_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}
