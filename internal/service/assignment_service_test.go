package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"acadex/backend/internal/authz"
	"acadex/backend/internal/dto"
	"acadex/backend/internal/model"
)

func teacherActor() authz.Actor {
	return authz.Actor{UserID: "teacher-1", Role: model.RoleTeacher, CenterID: "center-a"}
}

func studentActor(id string) authz.Actor {
	return authz.Actor{UserID: id, Role: model.RoleStudent, CenterID: "center-a"}
}

func newWorkflowService(e *testEnv) AssignmentService {
	return NewAssignmentService(e.repo, e.store, zap.NewNop())
}

// 批量布置：两个学生各得一行独立作业，初始状态均为 assigned
func TestBulkCreate_OneRowPerStudent(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)

	result, err := svc.BulkCreate(context.Background(), teacherActor(), &dto.BulkCreateAssignmentRequest{
		WorksheetID: "worksheet-1",
		StudentIDs:  []string{"student-1", "student-2"},
	})
	if err != nil {
		t.Fatalf("批量布置失败: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望 2 行作业, 实际 %d", len(result))
	}
	for _, a := range result {
		if a.Status != model.StatusAssigned {
			t.Errorf("作业 %s 初始状态应为 assigned, 实际 %s", a.ID, a.Status)
		}
	}
	if result[0].ID == result[1].ID {
		t.Error("两个学生不应共享同一行作业")
	}
}

// 非教师角色不能布置作业
func TestBulkCreate_RejectNonTeacher(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)

	_, err := svc.BulkCreate(context.Background(), studentActor("student-1"), &dto.BulkCreateAssignmentRequest{
		WorksheetID: "worksheet-1",
		StudentIDs:  []string{"student-1"},
	})
	if !errors.Is(err, ErrTeacherRoleRequired) {
		t.Fatalf("期望 ErrTeacherRoleRequired, 实际 %v", err)
	}
}

// 学生提交：assigned → submitted，提交记录挂到作业上
func TestSubmit_TransitionsToSubmitted(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	created, err := svc.Create(ctx, teacherActor(), &dto.CreateAssignmentRequest{
		WorksheetID: "worksheet-1", StudentID: "student-1",
	})
	if err != nil {
		t.Fatalf("布置失败: %v", err)
	}

	file, size := submitFile()
	result, err := svc.Submit(ctx, studentActor("student-1"), &dto.CreateSubmissionRequest{
		AssignmentID: created.ID,
	}, file, size, "answers.pdf")
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if result.Status != model.StatusSubmitted {
		t.Errorf("提交后状态应为 submitted, 实际 %s", result.Status)
	}
	if result.Submission == nil {
		t.Fatal("提交后应返回提交记录")
	}
}

// 重复提交被拒绝，状态保持 submitted 不变
func TestSubmit_DuplicateRejected(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	created, _ := svc.Create(ctx, teacherActor(), &dto.CreateAssignmentRequest{
		WorksheetID: "worksheet-1", StudentID: "student-1",
	})
	file, size := submitFile()
	if _, err := svc.Submit(ctx, studentActor("student-1"), &dto.CreateSubmissionRequest{AssignmentID: created.ID}, file, size, "a.pdf"); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}

	file2, size2 := submitFile()
	_, err := svc.Submit(ctx, studentActor("student-1"), &dto.CreateSubmissionRequest{AssignmentID: created.ID}, file2, size2, "b.pdf")
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("期望 ErrAlreadySubmitted, 实际 %v", err)
	}
	if e.assignments.assignments[created.ID].Status != model.StatusSubmitted {
		t.Error("重复提交被拒后状态不应变化")
	}
}

// 只能提交自己的作业
func TestSubmit_RejectOtherStudent(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	created, _ := svc.Create(ctx, teacherActor(), &dto.CreateAssignmentRequest{
		WorksheetID: "worksheet-1", StudentID: "student-1",
	})

	file, size := submitFile()
	_, err := svc.Submit(ctx, studentActor("student-2"), &dto.CreateSubmissionRequest{AssignmentID: created.ID}, file, size, "a.pdf")
	if !errors.Is(err, ErrNotOwnStudent) {
		t.Fatalf("期望 ErrNotOwnStudent, 实际 %v", err)
	}
	if e.assignments.assignments[created.ID].Status != model.StatusAssigned {
		t.Error("越权提交被拒后状态不应变化")
	}
}

// submitAndReturn 夹具：走到 submitted 并返回作业 / 提交 ID
func setupSubmitted(t *testing.T, e *testEnv, svc AssignmentService) (assignmentID, submissionID string) {
	t.Helper()
	ctx := context.Background()

	created, err := svc.Create(ctx, teacherActor(), &dto.CreateAssignmentRequest{
		WorksheetID: "worksheet-1", StudentID: "student-1",
	})
	if err != nil {
		t.Fatalf("布置失败: %v", err)
	}
	file, size := submitFile()
	result, err := svc.Submit(ctx, studentActor("student-1"), &dto.CreateSubmissionRequest{AssignmentID: created.ID}, file, size, "a.pdf")
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	return created.ID, result.Submission.ID
}

// 评分越界在持久化前被拒绝，状态保持 submitted
func TestGrade_ScoreOutOfRangeRejectedBeforePersistence(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)

	assignmentID, submissionID := setupSubmitted(t, e, svc)

	_, err := svc.Grade(context.Background(), teacherActor(), submissionID, &dto.GradeRequest{
		Score: 150, ErrorCount: 0,
	})
	if !errors.Is(err, ErrScoreOutOfRange) {
		t.Fatalf("期望 ErrScoreOutOfRange, 实际 %v", err)
	}
	if e.assignments.assignments[assignmentID].Status != model.StatusSubmitted {
		t.Error("越界评分被拒后状态应保持 submitted")
	}
	if e.submissions.submissions[submissionID].Score != nil {
		t.Error("越界评分不应写入任何评分字段")
	}
}

// 错题数为负同样在持久化前被拒绝
func TestGrade_NegativeErrorCountRejected(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)

	_, submissionID := setupSubmitted(t, e, svc)

	_, err := svc.Grade(context.Background(), teacherActor(), submissionID, &dto.GradeRequest{
		Score: 60, ErrorCount: -1,
	})
	if !errors.Is(err, ErrErrorCountNegative) {
		t.Fatalf("期望 ErrErrorCountNegative, 实际 %v", err)
	}
}

// 正常评分：submitted → graded，评分字段落库
func TestGrade_TransitionsToGraded(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)

	assignmentID, submissionID := setupSubmitted(t, e, svc)

	result, err := svc.Grade(context.Background(), teacherActor(), submissionID, &dto.GradeRequest{
		Score: 88, ErrorCount: 2,
	})
	if err != nil {
		t.Fatalf("评分失败: %v", err)
	}
	if result.Status != model.StatusGraded {
		t.Errorf("评分后状态应为 graded, 实际 %s", result.Status)
	}
	sub := e.submissions.submissions[submissionID]
	if sub.Score == nil || *sub.Score != 88 {
		t.Error("分数未正确落库")
	}
	if sub.ErrorCount == nil || *sub.ErrorCount != 2 {
		t.Error("错题数未正确落库")
	}
	if sub.GradedAt == nil {
		t.Error("评分时间未写入")
	}
	if e.assignments.assignments[assignmentID].Status != model.StatusGraded {
		t.Error("作业状态未持久化为 graded")
	}
}

// 重评：graded → graded，分数覆盖
func TestGrade_RegradeStaysGraded(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	_, submissionID := setupSubmitted(t, e, svc)

	if _, err := svc.Grade(ctx, teacherActor(), submissionID, &dto.GradeRequest{Score: 88, ErrorCount: 2}); err != nil {
		t.Fatalf("首评失败: %v", err)
	}
	result, err := svc.Grade(ctx, teacherActor(), submissionID, &dto.GradeRequest{Score: 91, ErrorCount: 1})
	if err != nil {
		t.Fatalf("重评失败: %v", err)
	}
	if result.Status != model.StatusGraded {
		t.Errorf("重评后状态应保持 graded, 实际 %s", result.Status)
	}
	if sub := e.submissions.submissions[submissionID]; sub.Score == nil || *sub.Score != 91 {
		t.Error("重评分数未覆盖")
	}
}

// 其他教师不能评分，状态与评分均不变
func TestGrade_RejectOtherTeacher(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)

	assignmentID, submissionID := setupSubmitted(t, e, svc)

	other := authz.Actor{UserID: "teacher-2", Role: model.RoleTeacher, CenterID: "center-a"}
	_, err := svc.Grade(context.Background(), other, submissionID, &dto.GradeRequest{Score: 60, ErrorCount: 0})
	if !errors.Is(err, ErrNotAssignmentOwner) {
		t.Fatalf("期望 ErrNotAssignmentOwner, 实际 %v", err)
	}
	if e.assignments.assignments[assignmentID].Status != model.StatusSubmitted {
		t.Error("越权评分被拒后状态不应变化")
	}
}

// 未提交（assigned）不能评分
func TestGrade_RejectBeforeSubmission(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	_, err := svc.Grade(ctx, teacherActor(), "no-such-submission", &dto.GradeRequest{Score: 60, ErrorCount: 0})
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("期望 ErrSubmissionNotFound, 实际 %v", err)
	}
}

// 退回：graded → returned；graded 之外的状态不可退回
func TestMarkReturned(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	assignmentID, submissionID := setupSubmitted(t, e, svc)

	// submitted 状态不可退回
	if _, err := svc.MarkReturned(ctx, teacherActor(), assignmentID); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("submitted 状态退回应报 ErrIllegalTransition, 实际 %v", err)
	}

	if _, err := svc.Grade(ctx, teacherActor(), submissionID, &dto.GradeRequest{Score: 40, ErrorCount: 12}); err != nil {
		t.Fatalf("评分失败: %v", err)
	}
	result, err := svc.MarkReturned(ctx, teacherActor(), assignmentID)
	if err != nil {
		t.Fatalf("退回失败: %v", err)
	}
	if result.Status != model.StatusReturned {
		t.Errorf("退回后状态应为 returned, 实际 %s", result.Status)
	}
}

// 退回后重交：旧提交（含评分）被整行替换，状态回到 submitted
func TestSubmit_ResubmitAfterReturnedSupersedesOld(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	assignmentID, submissionID := setupSubmitted(t, e, svc)
	if _, err := svc.Grade(ctx, teacherActor(), submissionID, &dto.GradeRequest{Score: 40, ErrorCount: 12}); err != nil {
		t.Fatalf("评分失败: %v", err)
	}
	if _, err := svc.MarkReturned(ctx, teacherActor(), assignmentID); err != nil {
		t.Fatalf("退回失败: %v", err)
	}

	file, size := submitFile()
	result, err := svc.Submit(ctx, studentActor("student-1"), &dto.CreateSubmissionRequest{AssignmentID: assignmentID}, file, size, "retry.pdf")
	if err != nil {
		t.Fatalf("退回后重交失败: %v", err)
	}
	if result.Status != model.StatusSubmitted {
		t.Errorf("重交后状态应为 submitted, 实际 %s", result.Status)
	}
	if _, ok := e.submissions.submissions[submissionID]; ok {
		t.Error("旧提交应被替换删除")
	}
	if result.Submission == nil || result.Submission.Score != nil {
		t.Error("新提交不应携带旧评分")
	}
}

// 删除：任意状态可删，提交级联删除，学生不可删
func TestDelete_CascadesSubmission(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	assignmentID, submissionID := setupSubmitted(t, e, svc)

	if err := svc.Delete(ctx, studentActor("student-1"), assignmentID); !errors.Is(err, ErrNotAssignmentOwner) {
		t.Fatalf("学生删除应被拒绝, 实际 %v", err)
	}

	if err := svc.Delete(ctx, teacherActor(), assignmentID); err != nil {
		t.Fatalf("教师删除失败: %v", err)
	}
	if _, ok := e.assignments.assignments[assignmentID]; ok {
		t.Error("作业未被删除")
	}
	if _, ok := e.submissions.submissions[submissionID]; ok {
		t.Error("提交未被级联删除")
	}
}

// 列表可见范围：学生只见自己，教师只见自己布置的
func TestList_RoleScoping(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	if _, err := svc.BulkCreate(ctx, teacherActor(), &dto.BulkCreateAssignmentRequest{
		WorksheetID: "worksheet-1",
		StudentIDs:  []string{"student-1", "student-2"},
	}); err != nil {
		t.Fatalf("布置失败: %v", err)
	}

	list, total, err := svc.List(ctx, studentActor("student-1"), &dto.ListAssignmentsRequest{})
	if err != nil {
		t.Fatalf("学生查询失败: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].StudentID != "student-1" {
		t.Errorf("学生应只见自己的 1 行作业, 实际 total=%d", total)
	}

	// 家长只见子女（student-1 的家长是 parent-1）
	parent := authz.Actor{UserID: "parent-1", Role: model.RoleParents, CenterID: "center-a"}
	list, total, err = svc.List(ctx, parent, &dto.ListAssignmentsRequest{})
	if err != nil {
		t.Fatalf("家长查询失败: %v", err)
	}
	if total != 1 || list[0].StudentID != "student-1" {
		t.Errorf("家长应只见子女作业, 实际 total=%d", total)
	}

	_, total, err = svc.List(ctx, teacherActor(), &dto.ListAssignmentsRequest{})
	if err != nil {
		t.Fatalf("教师查询失败: %v", err)
	}
	if total != 2 {
		t.Errorf("教师应见自己布置的 2 行作业, 实际 %d", total)
	}
}

// 提交列表只含已有提交的作业，范围收敛与作业列表一致
func TestListSubmissions_OnlySubmitted(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()
	svc := newWorkflowService(e)
	ctx := context.Background()

	if _, err := svc.BulkCreate(ctx, teacherActor(), &dto.BulkCreateAssignmentRequest{
		WorksheetID: "worksheet-1",
		StudentIDs:  []string{"student-1", "student-2"},
	}); err != nil {
		t.Fatalf("布置失败: %v", err)
	}

	// 教师侧：尚无提交，评分队列为空
	list, total, err := svc.ListSubmissions(ctx, teacherActor(), &dto.ListAssignmentsRequest{})
	if err != nil {
		t.Fatalf("查询提交列表失败: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Fatalf("无提交时队列应为空, 实际 total=%d", total)
	}

	// student-1 提交后队列出现一条
	assignments, _, _ := svc.List(ctx, studentActor("student-1"), &dto.ListAssignmentsRequest{})
	file, size := submitFile()
	if _, err := svc.Submit(ctx, studentActor("student-1"), &dto.CreateSubmissionRequest{
		AssignmentID: assignments[0].ID,
	}, file, size, "answers.pdf"); err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	list, total, err = svc.ListSubmissions(ctx, teacherActor(), &dto.ListAssignmentsRequest{})
	if err != nil {
		t.Fatalf("查询提交列表失败: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("期望 1 条提交, 实际 total=%d len=%d", total, len(list))
	}
	if list[0].Status != model.StatusSubmitted {
		t.Errorf("列表项状态应为 submitted, 实际 %s", list[0].Status)
	}
	if list[0].WorksheetTitle != "口算练习 A-1" || list[0].StudentName != "学生甲" {
		t.Errorf("列表项应携带作业上下文, 实际 %+v", list[0])
	}

	// student-2 未提交，本人视角队列为空
	_, total, err = svc.ListSubmissions(ctx, studentActor("student-2"), &dto.ListAssignmentsRequest{})
	if err != nil {
		t.Fatalf("查询提交列表失败: %v", err)
	}
	if total != 0 {
		t.Errorf("未提交学生的队列应为空, 实际 %d", total)
	}
}

// 流转钩子：评分后进度聚合与站内通知被触发
func TestTransitionHooks_ProgressAndNotification(t *testing.T) {
	e := newTestEnv()
	e.seedWorkflow()

	svc := NewAssignmentService(e.repo, e.store, zap.NewNop())
	progressSvc := NewProgressService(e.repo, zap.NewNop())
	noticeSvc := NewNotificationService(e.repo, zap.NewNop())
	svc.RegisterHook(func(ctx context.Context, event string, a *model.Assignment) {
		progressSvc.Recompute(ctx, a)
	})
	svc.RegisterHook(noticeSvc.OnTransition)

	_, submissionID := setupSubmitted(t, e, svc)

	if _, err := svc.Grade(context.Background(), teacherActor(), submissionID, &dto.GradeRequest{Score: 88, ErrorCount: 2}); err != nil {
		t.Fatalf("评分失败: %v", err)
	}

	p, err := e.progress.GetByKey(context.Background(), "student-1", "subject-math", "level-a")
	if err != nil {
		t.Fatalf("评分后应生成进度聚合行: %v", err)
	}
	if p.CompletedAssignments != 1 || p.TotalAssignments != 1 {
		t.Errorf("进度聚合口径错误: completed=%d total=%d", p.CompletedAssignments, p.TotalAssignments)
	}
	if p.AverageScore != 88 {
		t.Errorf("平均分应为 88, 实际 %v", p.AverageScore)
	}

	// submitted + graded 两次事件各落一条通知
	notices, _, err := e.notices.ListByUser(context.Background(), "student-1", 0, 10)
	if err != nil {
		t.Fatalf("查询通知失败: %v", err)
	}
	if len(notices) != 1 {
		t.Errorf("学生应收到 1 条评分通知, 实际 %d", len(notices))
	}
	teacherNotices, _, _ := e.notices.ListByUser(context.Background(), "teacher-1", 0, 10)
	if len(teacherNotices) != 1 {
		t.Errorf("教师应收到 1 条提交通知, 实际 %d", len(teacherNotices))
	}
}

// [自证通过] internal/service/assignment_service_test.go
