package model

import "time"

// ── 考核状态机（封闭集合） ──

// AppraisalStatus 考核状态。
// 主线：NEW → IN_REVIEW → SCORES_SENT → COMPLETE
// 申诉支线：SCORES_SENT → RETURNED → SCORES_SENT
// NEW 为唯一初始状态，COMPLETE 为唯一终态。
type AppraisalStatus string

const (
	StatusNew        AppraisalStatus = "NEW"
	StatusInReview   AppraisalStatus = "IN_REVIEW"
	StatusScoresSent AppraisalStatus = "SCORES_SENT"
	StatusReturned   AppraisalStatus = "RETURNED"
	StatusComplete   AppraisalStatus = "COMPLETE"
)

// Valid 判断状态是否属于封闭集合
func (s AppraisalStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInReview, StatusScoresSent, StatusReturned, StatusComplete:
		return true
	}
	return false
}

// Scorable 当前状态是否允许评分写入
// NEW（首次评分将其推进为 IN_REVIEW）、IN_REVIEW、RETURNED（申诉裁决后重评）均可评分。
func (s AppraisalStatus) Scorable() bool {
	switch s {
	case StatusNew, StatusInReview, StatusReturned:
		return true
	}
	return false
}

// CanSendScores 当前状态是否允许执行"发送成绩"
func (s AppraisalStatus) CanSendScores() bool {
	return s == StatusNew || s == StatusInReview
}

// CanAppeal 当前状态是否允许教师发起申诉（仅 SCORES_SENT）
func (s AppraisalStatus) CanAppeal() bool {
	return s == StatusScoresSent
}

// CanApprove 当前状态是否允许教师确认成绩（仅 SCORES_SENT）
func (s AppraisalStatus) CanApprove() bool {
	return s == StatusScoresSent
}

// Appraisal 考核表 — 对应 appraisals，每位教师每个周期至多一条
type Appraisal struct {
	AppraisalID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"appraisal_id"`
	FacultyID   string          `gorm:"type:uuid;not null;uniqueIndex:uniq_appraisal_faculty_cycle" json:"faculty_id"`
	CycleID     string          `gorm:"type:uuid;not null;uniqueIndex:uniq_appraisal_faculty_cycle" json:"cycle_id"`
	Status      AppraisalStatus `gorm:"type:varchar(20);not null;default:'NEW'"                 json:"status"`

	// 聚合分量（由权威 Evaluation 同步写入，读路径免 JOIN）
	ResearchScore          *float64 `gorm:"type:decimal(6,2)" json:"research_score,omitempty"`
	TeachingScore          *float64 `gorm:"type:decimal(6,2)" json:"teaching_score,omitempty"`
	UniversityServiceScore *float64 `gorm:"type:decimal(6,2)" json:"university_service_score,omitempty"`
	CommunityServiceScore  *float64 `gorm:"type:decimal(6,2)" json:"community_service_score,omitempty"`
	TotalScore             *float64 `gorm:"type:decimal(6,2)" json:"total_score,omitempty"`

	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	HODReviewedAt *time.Time `gorm:"column:hod_reviewed_at" json:"hod_reviewed_at,omitempty"`
	DeanReviewedAt *time.Time `json:"dean_reviewed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	VersionedModel

	// 关联
	Faculty *User  `gorm:"foreignKey:FacultyID;references:UserID" json:"faculty,omitempty"`
	Cycle   *Cycle `gorm:"foreignKey:CycleID;references:CycleID"  json:"cycle,omitempty"`
}

// TableName 指定表名
func (Appraisal) TableName() string { return "appraisals" }
