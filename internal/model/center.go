package model

// Center 学习中心表 — 对应 centers
// IsActive=false 表示中心被停用（锁定），该中心所有账号无法登录
type Center struct {
	CenterID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"center_id"`
	Name     string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Address  *string `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	Phone    *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	IsActive bool    `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Center) TableName() string { return "centers" }

// [自证通过] internal/model/center.go
