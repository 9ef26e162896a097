package dto

// ── 评分模块 DTO ──

// CapabilityPicksRequest 能力素养五个子维度的选档
type CapabilityPicksRequest struct {
	Communication  string `json:"communication"  binding:"required,oneof=HIGH EXCEEDS MEETS PARTIAL NEEDS"`
	Teamwork       string `json:"teamwork"       binding:"required,oneof=HIGH EXCEEDS MEETS PARTIAL NEEDS"`
	Responsibility string `json:"responsibility" binding:"required,oneof=HIGH EXCEEDS MEETS PARTIAL NEEDS"`
	Innovation     string `json:"innovation"     binding:"required,oneof=HIGH EXCEEDS MEETS PARTIAL NEEDS"`
	Professional   string `json:"professional"   binding:"required,oneof=HIGH EXCEEDS MEETS PARTIAL NEEDS"`
}

// ScoreCriterionRequest 单维度评分请求。
// 观测值按维度类型三选一：
//   - 计次类（校内服务/社会服务）：Count
//   - 百分比类（教学质量，学生评教均分）：Percentage
//   - 科研：Activities（活动类型列表，按配置计分表折分）
//   - 能力素养：CapabilityPicks
type ScoreCriterionRequest struct {
	Criterion       string                  `json:"criterion"        binding:"required,oneof=research teaching university_service community_service capabilities"`
	Count           *int                    `json:"count"            binding:"omitempty,min=0"`
	Percentage      *float64                `json:"percentage"       binding:"omitempty,min=0,max=100"`
	Activities      []string                `json:"activities"       binding:"omitempty,dive,max=50"`
	CapabilityPicks *CapabilityPicksRequest `json:"capability_picks" binding:"omitempty"`
	Comment         string                  `json:"comment"          binding:"omitempty,max=2000"`
}

// ScoreCriterionResponse 单维度评分响应
type ScoreCriterionResponse struct {
	Criterion   string  `json:"criterion"`
	Band        string  `json:"band"`
	Points      float64 `json:"points"`
	Explanation string  `json:"explanation"`
	TotalScore  float64 `json:"total_score"` // 当前评价记录总分
	Status      string  `json:"status"`      // 评分后考核状态
}

// EvaluatorAccessResponse 评分权限解析响应
type EvaluatorAccessResponse struct {
	Authorized bool   `json:"authorized"`
	Role       string `json:"role,omitempty"` // HOD | DEAN
}

// CriterionScoreItem 单维度成绩明细
type CriterionScoreItem struct {
	Points  *float64 `json:"points,omitempty"`
	Band    string   `json:"band,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

// EvaluationResponse 评价记录响应
type EvaluationResponse struct {
	ID                string             `json:"id"`
	AppraisalID       string             `json:"appraisal_id"`
	Role              string             `json:"role"`
	Research          CriterionScoreItem `json:"research"`
	Teaching          CriterionScoreItem `json:"teaching"`
	UniversityService CriterionScoreItem `json:"university_service"`
	CommunityService  CriterionScoreItem `json:"community_service"`
	Capability        CriterionScoreItem `json:"capability"`
	CapabilityRubric  interface{}        `json:"capability_rubric,omitempty"`
	TotalScore        float64            `json:"total_score"`
	EvaluatedBy       string             `json:"evaluated_by"`
	EvaluatedAt       string             `json:"evaluated_at,omitempty"`
}

// SuggestedObservationResponse 计次类维度的建议观测值（来自业绩成果计数）
type SuggestedObservationResponse struct {
	Criterion string `json:"criterion"`
	Count     int64  `json:"count"`
}
