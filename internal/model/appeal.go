package model

import "time"

// Appeal 申诉表 — 对应 appeals。
// 仅当考核处于 SCORES_SENT 时可创建；resolved_at 为 NULL 表示尚未裁决。
type Appeal struct {
	AppealID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"appeal_id"`
	AppraisalID    string     `gorm:"type:uuid;not null;index"                       json:"appraisal_id"`
	FacultyID      string     `gorm:"type:uuid;not null"                             json:"faculty_id"`
	Message        string     `gorm:"type:text;not null"                             json:"message"`
	ResolutionNote string     `gorm:"type:text"                                      json:"resolution_note,omitempty"`
	ResolvedBy     *string    `gorm:"type:uuid"                                      json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	VersionedModel

	// 关联
	Appraisal *Appraisal `gorm:"foreignKey:AppraisalID;references:AppraisalID" json:"appraisal,omitempty"`
}

// TableName 指定表名
func (Appeal) TableName() string { return "appeals" }

// Open 申诉是否仍未裁决
func (a *Appeal) Open() bool { return a.ResolvedAt == nil }
