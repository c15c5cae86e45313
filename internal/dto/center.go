package dto

// ── 学习中心模块 DTO ──

// CenterResponse 中心信息响应
type CenterResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive bool    `json:"is_active"`
}

// CreateCenterRequest 创建中心请求
type CreateCenterRequest struct {
	Name    string  `json:"name"    binding:"required,min=2,max=100"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	Phone   *string `json:"phone"   binding:"omitempty,max=30"`
}

// UpdateCenterRequest 更新中心请求
// IsActive=false 即停用（锁定）中心，该中心所有账号无法登录
type UpdateCenterRequest struct {
	Name     *string `json:"name"    binding:"omitempty,min=2,max=100"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	Phone    *string `json:"phone"   binding:"omitempty,max=30"`
	IsActive *bool   `json:"is_active"`
}

// [自证通过] internal/dto/center.go
