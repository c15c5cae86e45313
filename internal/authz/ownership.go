package authz

import "acadex/backend/internal/model"

// 作业工作流的归属判定，与 guard.go 的资源表共同构成
// "谁能做什么" 的唯一事实来源。

// Actor 当前操作者（来自 Token 声明）
type Actor struct {
	UserID   string
	Role     string
	CenterID string
}

// CanManageAssignment 判定操作者是否可对该作业执行教师侧流转
// （编辑、评分、退回、删除）。
// 规则：作业归属教师本人，或 super_admin，或该作业所在中心的 center_admin。
// 教师永远不能流转别人名下的作业
func CanManageAssignment(actor Actor, a *model.Assignment) bool {
	switch actor.Role {
	case model.RoleSuperAdmin:
		return true
	case model.RoleCenterAdmin:
		return actor.CenterID != "" && actor.CenterID == a.CenterID
	case model.RoleTeacher:
		return actor.UserID == a.TeacherID
	default:
		return false
	}
}

// CanSubmitAssignment 判定操作者是否可对该作业提交
// 只有作业归属的学生本人可以提交
func CanSubmitAssignment(actor Actor, a *model.Assignment) bool {
	return actor.Role == model.RoleStudent && actor.UserID == a.StudentID
}

// CanViewAssignment 判定操作者是否可查看该作业
// 在管理 / 提交权限之外，放开归属学生与其家长的只读访问
func CanViewAssignment(actor Actor, a *model.Assignment, studentParentID string) bool {
	if CanManageAssignment(actor, a) {
		return true
	}
	if actor.Role == model.RoleStudent {
		return actor.UserID == a.StudentID
	}
	if actor.Role == model.RoleParents {
		return studentParentID != "" && actor.UserID == studentParentID
	}
	return false
}

// [自证通过] internal/authz/ownership.go
