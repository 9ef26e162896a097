package dto

// ── 计分配置模块 DTO ──

// CreateGradingConfigRequest 创建计分配置请求
// CycleID 为空时创建全局配置
type CreateGradingConfigRequest struct {
	CycleID                 *string            `json:"cycle_id"                  binding:"omitempty,uuid"`
	ResearchWeight          float64            `json:"research_weight"           binding:"required,gt=0"`
	TeachingWeight          float64            `json:"teaching_weight"           binding:"required,gt=0"`
	UniversityServiceWeight float64            `json:"university_service_weight" binding:"required,gt=0"`
	CommunityServiceWeight  float64            `json:"community_service_weight"  binding:"required,gt=0"`
	ServicePointsPerItem    float64            `json:"service_points_per_item"   binding:"required,gt=0"`
	ServiceMaxPoints        float64            `json:"service_max_points"        binding:"required,gt=0"`
	TeachingBands           map[string]float64 `json:"teaching_bands"            binding:"omitempty"`
	ResearchActivityPoints  map[string]float64 `json:"research_activity_points"  binding:"omitempty"`
}

// UpdateGradingConfigRequest 更新计分配置请求
type UpdateGradingConfigRequest struct {
	ResearchWeight          *float64           `json:"research_weight"           binding:"omitempty,gt=0"`
	TeachingWeight          *float64           `json:"teaching_weight"           binding:"omitempty,gt=0"`
	UniversityServiceWeight *float64           `json:"university_service_weight" binding:"omitempty,gt=0"`
	CommunityServiceWeight  *float64           `json:"community_service_weight"  binding:"omitempty,gt=0"`
	ServicePointsPerItem    *float64           `json:"service_points_per_item"   binding:"omitempty,gt=0"`
	ServiceMaxPoints        *float64           `json:"service_max_points"        binding:"omitempty,gt=0"`
	TeachingBands           map[string]float64 `json:"teaching_bands"            binding:"omitempty"`
	ResearchActivityPoints  map[string]float64 `json:"research_activity_points"  binding:"omitempty"`
}

// GradingConfigResponse 计分配置响应
type GradingConfigResponse struct {
	ID                      string             `json:"id"`
	Scope                   string             `json:"scope"`
	CycleID                 *string            `json:"cycle_id,omitempty"`
	ResearchWeight          float64            `json:"research_weight"`
	TeachingWeight          float64            `json:"teaching_weight"`
	UniversityServiceWeight float64            `json:"university_service_weight"`
	CommunityServiceWeight  float64            `json:"community_service_weight"`
	ServicePointsPerItem    float64            `json:"service_points_per_item"`
	ServiceMaxPoints        float64            `json:"service_max_points"`
	TeachingBands           map[string]float64 `json:"teaching_bands,omitempty"`
	ResearchActivityPoints  map[string]float64 `json:"research_activity_points,omitempty"`
}
