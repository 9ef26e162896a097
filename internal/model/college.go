package model

// College 学院表 — 对应 colleges
type College struct {
	CollegeID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"college_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (College) TableName() string { return "colleges" }
