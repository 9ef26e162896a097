package model

import "time"

// Cycle 考核周期表，对应 cycles（按学年设置的考核期）
type Cycle struct {
	CycleID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cycle_id"`
	Name         string    `gorm:"type:varchar(100);not null"                     json:"name"`
	AcademicYear string    `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive     bool      `gorm:"not null;default:false"                         json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Cycle) TableName() string { return "cycles" }
