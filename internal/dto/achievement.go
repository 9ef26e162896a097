package dto

// ── 业绩成果模块 DTO ──

// CreateAchievementRequest 提交业绩成果请求
type CreateAchievementRequest struct {
	AppraisalID  string `json:"appraisal_id"  binding:"required,uuid"`
	Category     string `json:"category"      binding:"required,oneof=research teaching university_service community_service capabilities"`
	ActivityType string `json:"activity_type" binding:"omitempty,max=50"`
	Title        string `json:"title"         binding:"required,min=2,max=255"`
	Description  string `json:"description"   binding:"omitempty,max=2000"`
	EvidenceURL  string `json:"evidence_url"  binding:"omitempty,url,max=512"`
	AchievedAt   string `json:"achieved_at"   binding:"omitempty"` // "2025-06-01"
}

// AchievementResponse 业绩成果响应
type AchievementResponse struct {
	ID           string `json:"id"`
	AppraisalID  string `json:"appraisal_id"`
	Category     string `json:"category"`
	ActivityType string `json:"activity_type,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	EvidenceURL  string `json:"evidence_url,omitempty"`
	AchievedAt   string `json:"achieved_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}
