package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"acadex/backend/internal/model"
	"acadex/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.CenterID != "" && (u.CenterID == nil || *u.CenterID != filters.CenterID) {
				continue
			}
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(u.Name, filters.Keyword) && !strings.Contains(u.Email, filters.Keyword) {
				continue
			}
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListChildren(_ context.Context, parentID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == model.RoleStudent && u.ParentID != nil && *u.ParentID == parentID {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock CenterRepository ──

type mockCenterRepo struct {
	centers map[string]*model.Center
	seq     int
}

func newMockCenterRepo() *mockCenterRepo {
	return &mockCenterRepo{centers: make(map[string]*model.Center)}
}

func (m *mockCenterRepo) Create(_ context.Context, center *model.Center) error {
	if center.CenterID == "" {
		m.seq++
		center.CenterID = fmt.Sprintf("center-%d", m.seq)
	}
	m.centers[center.CenterID] = center
	return nil
}

func (m *mockCenterRepo) GetByID(_ context.Context, id string) (*model.Center, error) {
	if c, ok := m.centers[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCenterRepo) List(_ context.Context, offset, limit int) ([]model.Center, int64, error) {
	var all []model.Center
	for _, c := range m.centers {
		all = append(all, *c)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockCenterRepo) Update(_ context.Context, center *model.Center) error {
	m.centers[center.CenterID] = center
	return nil
}

func (m *mockCenterRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.centers, id)
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
	seq      int
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	if subject.SubjectID == "" {
		m.seq++
		subject.SubjectID = fmt.Sprintf("subject-%d", m.seq)
	}
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock LevelRepository ──

type mockLevelRepo struct {
	levels map[string]*model.Level
	seq    int
}

func newMockLevelRepo() *mockLevelRepo {
	return &mockLevelRepo{levels: make(map[string]*model.Level)}
}

func (m *mockLevelRepo) Create(_ context.Context, level *model.Level) error {
	if level.LevelID == "" {
		m.seq++
		level.LevelID = fmt.Sprintf("level-%d", m.seq)
	}
	m.levels[level.LevelID] = level
	return nil
}

func (m *mockLevelRepo) GetByID(_ context.Context, id string) (*model.Level, error) {
	if l, ok := m.levels[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLevelRepo) ListBySubject(_ context.Context, subjectID string) ([]model.Level, error) {
	var result []model.Level
	for _, l := range m.levels {
		if l.SubjectID == subjectID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockLevelRepo) Update(_ context.Context, level *model.Level) error {
	m.levels[level.LevelID] = level
	return nil
}

func (m *mockLevelRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.levels, id)
	return nil
}

// ── Mock WorksheetRepository ──

type mockWorksheetRepo struct {
	worksheets map[string]*model.Worksheet
	seq        int
}

func newMockWorksheetRepo() *mockWorksheetRepo {
	return &mockWorksheetRepo{worksheets: make(map[string]*model.Worksheet)}
}

func (m *mockWorksheetRepo) Create(_ context.Context, worksheet *model.Worksheet) error {
	if worksheet.WorksheetID == "" {
		m.seq++
		worksheet.WorksheetID = fmt.Sprintf("worksheet-%d", m.seq)
	}
	m.worksheets[worksheet.WorksheetID] = worksheet
	return nil
}

func (m *mockWorksheetRepo) GetByID(_ context.Context, id string) (*model.Worksheet, error) {
	if w, ok := m.worksheets[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorksheetRepo) List(_ context.Context, filters *repository.WorksheetListFilters, offset, limit int) ([]model.Worksheet, int64, error) {
	var all []model.Worksheet
	for _, w := range m.worksheets {
		if filters != nil {
			if filters.SubjectID != "" && w.SubjectID != filters.SubjectID {
				continue
			}
			if filters.LevelID != "" && w.LevelID != filters.LevelID {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(w.Title, filters.Keyword) {
				continue
			}
		}
		all = append(all, *w)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockWorksheetRepo) Update(_ context.Context, worksheet *model.Worksheet) error {
	m.worksheets[worksheet.WorksheetID] = worksheet
	return nil
}

func (m *mockWorksheetRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.worksheets, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	worksheets  *mockWorksheetRepo // GetByID 预加载 Worksheet 用
	submissions *mockSubmissionRepo
	students    *mockUserRepo
	seq         int
}

func newMockAssignmentRepo(ws *mockWorksheetRepo, subs *mockSubmissionRepo, users *mockUserRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.Assignment),
		worksheets:  ws,
		submissions: subs,
		students:    users,
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		m.seq++
		assignment.AssignmentID = fmt.Sprintf("assignment-%d", m.seq)
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) BatchCreate(ctx context.Context, assignments []*model.Assignment) error {
	for _, a := range assignments {
		if err := m.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// GetByID 模拟预加载：挂上练习册、学生与提交
func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.worksheets != nil {
		if w, ok := m.worksheets.worksheets[a.WorksheetID]; ok {
			a.Worksheet = w
		}
	}
	if m.students != nil {
		if s, ok := m.students.users[a.StudentID]; ok {
			a.Student = s
		}
	}
	if m.submissions != nil {
		a.Submission = nil
		for _, sub := range m.submissions.submissions {
			if sub.AssignmentID == a.AssignmentID {
				a.Submission = sub
				break
			}
		}
	}
	return a, nil
}

func (m *mockAssignmentRepo) List(_ context.Context, filters *repository.AssignmentListFilters, offset, limit int) ([]model.Assignment, int64, error) {
	var all []model.Assignment
	for _, a := range m.assignments {
		if filters != nil {
			if filters.StudentID != "" && a.StudentID != filters.StudentID {
				continue
			}
			if len(filters.StudentIDs) > 0 && !containsString(filters.StudentIDs, a.StudentID) {
				continue
			}
			if filters.TeacherID != "" && a.TeacherID != filters.TeacherID {
				continue
			}
			if filters.CenterID != "" && a.CenterID != filters.CenterID {
				continue
			}
			if filters.Status != "" && a.Status != filters.Status {
				continue
			}
			if filters.HasSubmission && a.Status == model.StatusAssigned {
				continue
			}
		}
		copied := *a
		// 与真实仓储一致：List 预加载练习册 / 学生 / 提交
		if m.worksheets != nil {
			if w, ok := m.worksheets.worksheets[a.WorksheetID]; ok {
				copied.Worksheet = w
			}
		}
		if m.students != nil {
			if s, ok := m.students.users[a.StudentID]; ok {
				copied.Student = s
			}
		}
		if m.submissions != nil {
			for _, sub := range m.submissions.submissions {
				if sub.AssignmentID == a.AssignmentID {
					copied.Submission = sub
					break
				}
			}
		}
		all = append(all, copied)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockAssignmentRepo) ListDue(_ context.Context, studentIDs []string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.DueDate == nil || !containsString(studentIDs, a.StudentID) {
			continue
		}
		copied := *a
		if m.worksheets != nil {
			if w, ok := m.worksheets.worksheets[a.WorksheetID]; ok {
				copied.Worksheet = w
			}
		}
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id, status string) error {
	a, ok := m.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.assignments, id)
	return nil
}

// Aggregate 内存版进度统计，口径与 SQL 实现一致
func (m *mockAssignmentRepo) Aggregate(_ context.Context, studentID, subjectID, levelID string) (*repository.ProgressAggregate, error) {
	agg := &repository.ProgressAggregate{}
	var scoreSum float64
	var scoreCount int

	for _, a := range m.assignments {
		if a.StudentID != studentID {
			continue
		}
		w, ok := m.worksheets.worksheets[a.WorksheetID]
		if !ok || w.SubjectID != subjectID || w.LevelID != levelID {
			continue
		}
		agg.Total++
		if a.Status == model.StatusGraded || a.Status == model.StatusReturned {
			agg.Completed++
		}
		for _, sub := range m.submissions.submissions {
			if sub.AssignmentID != a.AssignmentID {
				continue
			}
			if sub.Score != nil {
				scoreSum += *sub.Score
				scoreCount++
			}
			if agg.LastActivity == nil || sub.SubmittedAt.After(*agg.LastActivity) {
				t := sub.SubmittedAt
				agg.LastActivity = &t
			}
		}
	}
	if scoreCount > 0 {
		agg.AverageScore = scoreSum / float64(scoreCount)
	}
	return agg, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	submissions map[string]*model.Submission
	seq         int
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{submissions: make(map[string]*model.Submission)}
}

func (m *mockSubmissionRepo) Create(_ context.Context, submission *model.Submission) error {
	// 模拟 assignment_id 唯一索引
	for _, s := range m.submissions {
		if s.AssignmentID == submission.AssignmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if submission.SubmissionID == "" {
		m.seq++
		submission.SubmissionID = fmt.Sprintf("submission-%d", m.seq)
	}
	m.submissions[submission.SubmissionID] = submission
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	if s, ok := m.submissions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByAssignmentID(_ context.Context, assignmentID string) (*model.Submission, error) {
	for _, s := range m.submissions {
		if s.AssignmentID == assignmentID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) UpdateGrade(_ context.Context, submission *model.Submission) error {
	m.submissions[submission.SubmissionID] = submission
	return nil
}

func (m *mockSubmissionRepo) DeleteByAssignmentID(_ context.Context, assignmentID string) error {
	for id, s := range m.submissions {
		if s.AssignmentID == assignmentID {
			delete(m.submissions, id)
		}
	}
	return nil
}

// ── Mock ProgressRepository ──

type mockProgressRepo struct {
	rows map[string]*model.StudentProgress
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{rows: make(map[string]*model.StudentProgress)}
}

func progressKey(studentID, subjectID, levelID string) string {
	return studentID + "/" + subjectID + "/" + levelID
}

func (m *mockProgressRepo) Upsert(_ context.Context, progress *model.StudentProgress) error {
	m.rows[progressKey(progress.StudentID, progress.SubjectID, progress.LevelID)] = progress
	return nil
}

func (m *mockProgressRepo) GetByKey(_ context.Context, studentID, subjectID, levelID string) (*model.StudentProgress, error) {
	if p, ok := m.rows[progressKey(studentID, subjectID, levelID)]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentProgress, error) {
	var result []model.StudentProgress
	for _, p := range m.rows {
		if p.StudentID == studentID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProgressRepo) ListByStudents(_ context.Context, studentIDs []string) ([]model.StudentProgress, error) {
	var result []model.StudentProgress
	for _, p := range m.rows {
		if containsString(studentIDs, p.StudentID) {
			result = append(result, *p)
		}
	}
	return result, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.seq++
	notification.NotificationID = fmt.Sprintf("notification-%d", m.seq)
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range m.notifications {
		if n.NotificationID == id && n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ── Mock FileStore ──

type mockFileStore struct {
	objects map[string][]byte
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{objects: make(map[string][]byte)}
}

func (m *mockFileStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	m.objects[key] = buf.Bytes()
	return key, nil
}

func (m *mockFileStore) PresignedURL(_ context.Context, key string) (string, error) {
	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("对象不存在: %s", key)
	}
	return "https://storage.test/" + key, nil
}

func (m *mockFileStore) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

// ── 测试环境装配 ──

// testEnv 一套互相接好的 mock 仓储与存储
type testEnv struct {
	repo        *repository.Repository
	users       *mockUserRepo
	centers     *mockCenterRepo
	subjects    *mockSubjectRepo
	levels      *mockLevelRepo
	worksheets  *mockWorksheetRepo
	assignments *mockAssignmentRepo
	submissions *mockSubmissionRepo
	progress    *mockProgressRepo
	notices     *mockNotificationRepo
	store       *mockFileStore
}

func newTestEnv() *testEnv {
	users := newMockUserRepo()
	centers := newMockCenterRepo()
	subjects := newMockSubjectRepo()
	levels := newMockLevelRepo()
	worksheets := newMockWorksheetRepo()
	submissions := newMockSubmissionRepo()
	assignments := newMockAssignmentRepo(worksheets, submissions, users)
	progress := newMockProgressRepo()
	notices := newMockNotificationRepo()

	repo := &repository.Repository{
		User:         users,
		Center:       centers,
		Subject:      subjects,
		Level:        levels,
		Worksheet:    worksheets,
		Assignment:   assignments,
		Submission:   submissions,
		Progress:     progress,
		Notification: notices,
	}

	return &testEnv{
		repo:        repo,
		users:       users,
		centers:     centers,
		subjects:    subjects,
		levels:      levels,
		worksheets:  worksheets,
		assignments: assignments,
		submissions: submissions,
		progress:    progress,
		notices:     notices,
		store:       newMockFileStore(),
	}
}

// seedWorkflow 布置一套常用夹具：中心 / 教师 / 两个学生 / 家长 / 科目级别 / 练习册
func (e *testEnv) seedWorkflow() {
	ctx := context.Background()
	centerID := "center-a"
	_ = e.centers.Create(ctx, &model.Center{CenterID: centerID, Name: "测试中心", IsActive: true})

	_ = e.users.Create(ctx, &model.User{
		UserID: "teacher-1", Name: "王老师", Email: "teacher@test.io",
		Role: model.RoleTeacher, CenterID: &centerID, IsActive: true,
	})
	parentID := "parent-1"
	_ = e.users.Create(ctx, &model.User{
		UserID: parentID, Name: "学生家长", Email: "parent@test.io",
		Role: model.RoleParents, CenterID: &centerID, IsActive: true,
	})
	_ = e.users.Create(ctx, &model.User{
		UserID: "student-1", Name: "学生甲", Email: "s1@test.io",
		Role: model.RoleStudent, CenterID: &centerID, ParentID: &parentID, IsActive: true,
	})
	_ = e.users.Create(ctx, &model.User{
		UserID: "student-2", Name: "学生乙", Email: "s2@test.io",
		Role: model.RoleStudent, CenterID: &centerID, IsActive: true,
	})

	_ = e.subjects.Create(ctx, &model.Subject{SubjectID: "subject-math", Name: "数学"})
	_ = e.levels.Create(ctx, &model.Level{LevelID: "level-a", SubjectID: "subject-math", Name: "A 级", Sequence: 1})
	_ = e.worksheets.Create(ctx, &model.Worksheet{
		WorksheetID: "worksheet-1", Title: "口算练习 A-1",
		SubjectID: "subject-math", LevelID: "level-a", FileKey: "worksheets/a1.pdf",
	})
	e.store.objects["worksheets/a1.pdf"] = []byte("pdf")
}

// submitFile 提交用的文件内容
func submitFile() (io.Reader, int64) {
	content := []byte("answer sheet")
	return bytes.NewReader(content), int64(len(content))
}

// [自证通过] internal/service/mock_repos_test.go
