package model

// ConfigScope 计分配置作用域：全局或绑定单个周期
type ConfigScope string

const (
	ScopeGlobal ConfigScope = "GLOBAL"
	ScopeCycle  ConfigScope = "CYCLE"
)

// GradingConfig 计分配置表 — 对应 grading_configs。
// 评分路径只读；周期专属配置优先于全局配置，二者皆缺视为致命错误。
type GradingConfig struct {
	ConfigID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"config_id"`
	Scope    ConfigScope `gorm:"type:varchar(10);not null;default:'GLOBAL'"     json:"scope"`
	CycleID  *string     `gorm:"type:uuid"                                      json:"cycle_id,omitempty"`

	// 四个计分维度权重，校验必须合计 100
	ResearchWeight          float64 `gorm:"type:decimal(5,2);not null;default:30" json:"research_weight"`
	TeachingWeight          float64 `gorm:"type:decimal(5,2);not null;default:30" json:"teaching_weight"`
	UniversityServiceWeight float64 `gorm:"type:decimal(5,2);not null;default:20" json:"university_service_weight"`
	CommunityServiceWeight  float64 `gorm:"type:decimal(5,2);not null;default:20" json:"community_service_weight"`

	// 计次类维度：单项分值与上限
	ServicePointsPerItem float64 `gorm:"type:decimal(5,2);not null;default:4"  json:"service_points_per_item"`
	ServiceMaxPoints     float64 `gorm:"type:decimal(5,2);not null;default:20" json:"service_max_points"`

	// 教学档位表与科研活动计分表（JSONB，加载时校验而非读取时信任）
	TeachingBands          BandPointsMap `gorm:"type:jsonb" json:"teaching_bands,omitempty"`
	ResearchActivityPoints PointsMap     `gorm:"type:jsonb" json:"research_activity_points,omitempty"`

	VersionedModel

	// 关联
	Cycle *Cycle `gorm:"foreignKey:CycleID;references:CycleID" json:"cycle,omitempty"`
}

// TableName 指定表名
func (GradingConfig) TableName() string { return "grading_configs" }

// WeightSum 四维度权重合计
func (c *GradingConfig) WeightSum() float64 {
	return c.ResearchWeight + c.TeachingWeight + c.UniversityServiceWeight + c.CommunityServiceWeight
}
