package model

// ── 用户角色（封闭集合） ──

// Role 用户角色。组织层级：INSTRUCTOR 隶属系，HOD 负责系，DEAN 负责学院，ADMIN 不受限。
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleDean       Role = "DEAN"
	RoleHOD        Role = "HOD"
	RoleInstructor Role = "INSTRUCTOR"
)

// Valid 判断角色是否属于封闭集合
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDean, RoleHOD, RoleInstructor:
		return true
	}
	return false
}

// User 用户表 — 对应 users
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string  `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeID         string  `gorm:"type:varchar(20);not null"                      json:"employee_id"`
	Email              string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               Role    `gorm:"type:varchar(20);not null;default:'INSTRUCTOR'" json:"role"`
	Title              string  `gorm:"type:varchar(50)"                               json:"title,omitempty"`
	DepartmentID       *string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	CollegeID          *string `gorm:"type:uuid"                                      json:"college_id,omitempty"`
	MustChangePassword bool    `gorm:"not null;default:false"                         json:"must_change_password"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	College    *College    `gorm:"foreignKey:CollegeID;references:CollegeID"       json:"college,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// CollegeScope 返回用户所属学院 ID：DEAN 直接挂学院，其余角色经由系推导。
func (u *User) CollegeScope() string {
	if u.CollegeID != nil {
		return *u.CollegeID
	}
	if u.Department != nil {
		return u.Department.CollegeID
	}
	return ""
}
