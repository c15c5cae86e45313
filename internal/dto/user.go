package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
	Center   *CenterResponse `json:"center,omitempty"`
	ParentID *string         `json:"parent_id,omitempty"`
	IsActive bool            `json:"is_active"`
}

// CreateUserRequest 管理员建档请求（教师 / 学生 / 家长 / 中心管理员）
type CreateUserRequest struct {
	Name     string  `json:"name"      binding:"required,min=2,max=100"`
	Email    string  `json:"email"     binding:"required,email"`
	Password string  `json:"password"  binding:"required,min=8,max=64"`
	Role     string  `json:"role"      binding:"required,oneof=center_admin teacher parents student"`
	CenterID string  `json:"center_id" binding:"required,uuid"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"` // 仅学生
}

// UpdateUserRequest 用户信息更新请求
type UpdateUserRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

// ListUsersRequest 用户列表查询参数
type ListUsersRequest struct {
	PaginationRequest
	CenterID string `form:"center_id" binding:"omitempty,uuid"`
	Role     string `form:"role"      binding:"omitempty,oneof=super_admin center_admin teacher parents student"`
	Keyword  string `form:"keyword"`
}

// [自证通过] internal/dto/user.go
