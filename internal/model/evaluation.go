package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 评分档位与考核维度（封闭集合） ──

// Band 评分档位，由原始观测值归档得出
type Band string

const (
	BandHigh    Band = "HIGH"
	BandExceeds Band = "EXCEEDS"
	BandMeets   Band = "MEETS"
	BandPartial Band = "PARTIAL"
	BandNeeds   Band = "NEEDS"
)

// Valid 判断档位是否属于封闭集合
func (b Band) Valid() bool {
	switch b {
	case BandHigh, BandExceeds, BandMeets, BandPartial, BandNeeds:
		return true
	}
	return false
}

// Criterion 考核维度
type Criterion string

const (
	CriterionResearch          Criterion = "research"
	CriterionTeaching          Criterion = "teaching"
	CriterionUniversityService Criterion = "university_service"
	CriterionCommunityService  Criterion = "community_service"
	CriterionCapabilities      Criterion = "capabilities"
)

// Valid 判断维度是否属于封闭集合
func (c Criterion) Valid() bool {
	switch c {
	case CriterionResearch, CriterionTeaching, CriterionUniversityService,
		CriterionCommunityService, CriterionCapabilities:
		return true
	}
	return false
}

// ScoreColumns 本维度一次评分写入涉及的评价表列，
// 用于限定 Upsert 冲突时的覆盖范围（其他维度列不动）
func (c Criterion) ScoreColumns() []string {
	switch c {
	case CriterionResearch:
		return []string{"research_points", "research_band", "research_comment"}
	case CriterionTeaching:
		return []string{"teaching_points", "teaching_band", "teaching_comment"}
	case CriterionUniversityService:
		return []string{"university_service_points", "university_service_band", "university_service_comment"}
	case CriterionCommunityService:
		return []string{"community_service_points", "community_service_band", "community_service_comment"}
	case CriterionCapabilities:
		return []string{"capability_points", "capability_band", "capability_comment", "capability_rubric"}
	}
	return nil
}

// EvaluatorRole 评价人角色：系主任或院长
type EvaluatorRole string

const (
	EvaluatorHOD  EvaluatorRole = "HOD"
	EvaluatorDean EvaluatorRole = "DEAN"
)

// Valid 判断评价人角色是否属于封闭集合
func (r EvaluatorRole) Valid() bool {
	return r == EvaluatorHOD || r == EvaluatorDean
}

// ── 能力素养细则（JSONB） ──

// CapabilityRubric 能力素养维度的细则：五个子维度各自由评价人选档，
// 子维度按 20 分档位表折分求和（0–100），总分再按百分比阈值归档。
type CapabilityRubric struct {
	Communication  Band    `json:"communication"`
	Teamwork       Band    `json:"teamwork"`
	Responsibility Band    `json:"responsibility"`
	Innovation     Band    `json:"innovation"`
	Professional   Band    `json:"professional"`
	Total          float64 `json:"total"`
	OverallBand    Band    `json:"overall_band"`
}

// Scan 将 JSONB 字节反序列化
func (r *CapabilityRubric) Scan(src interface{}) error {
	if src == nil {
		*r = CapabilityRubric{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("CapabilityRubric.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, r)
}

// Value 序列化为 JSONB 字节
func (r CapabilityRubric) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Evaluation 评价记录表 — 对应 evaluations，每个 (考核, 评价人角色) 至多一条。
// 同一键的再次评分为覆盖写入，绝不产生第二行。
type Evaluation struct {
	EvaluationID string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"evaluation_id"`
	AppraisalID  string        `gorm:"type:uuid;not null;uniqueIndex:uniq_evaluation_appraisal_role" json:"appraisal_id"`
	Role         EvaluatorRole `gorm:"type:varchar(10);not null;uniqueIndex:uniq_evaluation_appraisal_role" json:"role"`

	// 各维度分值 / 档位 / 评语（未评维度保持 NULL，聚合时按 0 计）
	ResearchPoints          *float64 `gorm:"type:decimal(6,2)" json:"research_points,omitempty"`
	ResearchBand            *Band    `gorm:"type:varchar(10)"  json:"research_band,omitempty"`
	ResearchComment         string   `gorm:"type:text"         json:"research_comment,omitempty"`
	TeachingPoints          *float64 `gorm:"type:decimal(6,2)" json:"teaching_points,omitempty"`
	TeachingBand            *Band    `gorm:"type:varchar(10)"  json:"teaching_band,omitempty"`
	TeachingComment         string   `gorm:"type:text"         json:"teaching_comment,omitempty"`
	UniversityServicePoints *float64 `gorm:"type:decimal(6,2)" json:"university_service_points,omitempty"`
	UniversityServiceBand   *Band    `gorm:"type:varchar(10)"  json:"university_service_band,omitempty"`
	UniversityServiceComment string  `gorm:"type:text"         json:"university_service_comment,omitempty"`
	CommunityServicePoints  *float64 `gorm:"type:decimal(6,2)" json:"community_service_points,omitempty"`
	CommunityServiceBand    *Band    `gorm:"type:varchar(10)"  json:"community_service_band,omitempty"`
	CommunityServiceComment string   `gorm:"type:text"         json:"community_service_comment,omitempty"`

	// 能力素养不计入总分，细则单独存 JSONB
	CapabilityPoints  *float64          `gorm:"type:decimal(6,2)" json:"capability_points,omitempty"`
	CapabilityBand    *Band             `gorm:"type:varchar(10)"  json:"capability_band,omitempty"`
	CapabilityComment string            `gorm:"type:text"         json:"capability_comment,omitempty"`
	CapabilityRubric  *CapabilityRubric `gorm:"type:jsonb"        json:"capability_rubric,omitempty"`

	// 总分 = 科研 + 教学 + 校内服务 + 社会服务（缺项按 0）
	TotalScore float64 `gorm:"type:decimal(6,2);not null;default:0" json:"total_score"`

	EvaluatedBy string     `gorm:"type:uuid;not null" json:"evaluated_by"`
	EvaluatedAt *time.Time `json:"evaluated_at,omitempty"`
	VersionedModel

	// 关联
	Appraisal *Appraisal `gorm:"foreignKey:AppraisalID;references:AppraisalID" json:"appraisal,omitempty"`
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// ComputeTotal 由当前已存的四个计分维度重算总分（缺项按 0，绝不视为非法）
func (e *Evaluation) ComputeTotal() float64 {
	total := 0.0
	for _, p := range []*float64{
		e.ResearchPoints, e.TeachingPoints,
		e.UniversityServicePoints, e.CommunityServicePoints,
	} {
		if p != nil {
			total += *p
		}
	}
	return total
}
