package model

import "time"

// Achievement 业绩成果表 — 对应 achievements。
// 教师在考核可编辑期提交；计次类维度的建议观测值来自本表的分类计数。
type Achievement struct {
	AchievementID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"achievement_id"`
	AppraisalID   string    `gorm:"type:uuid;not null;index"                       json:"appraisal_id"`
	Category      Criterion `gorm:"type:varchar(30);not null"                      json:"category"`
	ActivityType  string    `gorm:"type:varchar(50)"                               json:"activity_type,omitempty"`
	Title         string    `gorm:"type:varchar(255);not null"                     json:"title"`
	Description   string    `gorm:"type:text"                                      json:"description,omitempty"`
	EvidenceURL   string    `gorm:"type:varchar(512)"                              json:"evidence_url,omitempty"`
	AchievedAt    *time.Time `gorm:"type:date"                                     json:"achieved_at,omitempty"`
	VersionedModel

	// 关联
	Appraisal *Appraisal `gorm:"foreignKey:AppraisalID;references:AppraisalID" json:"appraisal,omitempty"`
}

// TableName 指定表名
func (Achievement) TableName() string { return "achievements" }
