package jwt

import (
	"errors"
	"testing"
	"time"

	"acadex/backend/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-at-least-16-chars",
		AccessTokenTTL: ttl,
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	mgr := newTestManager(time.Hour)

	token, err := mgr.GenerateToken("user-1", "teacher", "center-a")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "teacher" || claims.CenterID != "center-a" {
		t.Errorf("声明不匹配: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("jti 不应为空（登出黑名单依赖 jti）")
	}
	if claims.Issuer != "acadex" {
		t.Errorf("签发方错误: %s", claims.Issuer)
	}
}

func TestParseToken_Expired(t *testing.T) {
	mgr := newTestManager(-time.Minute)

	token, err := mgr.GenerateToken("user-1", "student", "")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	if _, err := mgr.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("过期凭证应报 ErrTokenExpired, 实际 %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	mgr := newTestManager(time.Hour)
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-16-chars-min",
		AccessTokenTTL: time.Hour,
	})

	token, _ := mgr.GenerateToken("user-1", "teacher", "")
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("异钥凭证应报 ErrTokenInvalid, 实际 %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	mgr := newTestManager(time.Hour)
	if _, err := mgr.ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("非法字符串应报 ErrTokenInvalid, 实际 %v", err)
	}
}

// [自证通过] pkg/jwt/jwt_test.go
