package action

import (
	"context"
	"strings"

	"aetherium-books-api/internal/config"
)

// IdentityProvider 身份校验边界。演示环境使用 MockIdentity，它不是安全控制。
type IdentityProvider interface {
	// Exists 报告邮箱是否已注册
	Exists(ctx context.Context, email string) (bool, error)
	// Authenticate 校验邮箱与密码
	Authenticate(ctx context.Context, email, password string) (bool, error)
}

// MockIdentity 与固定的演示凭据比较
type MockIdentity struct {
	Email         string
	Password      string
	ExistingEmail string
}

// NewMockIdentity 从配置创建 MockIdentity
func NewMockIdentity(cfg *config.Config) *MockIdentity {
	return &MockIdentity{
		Email:         cfg.Auth.Mock.Email,
		Password:      cfg.Auth.Mock.Password,
		ExistingEmail: cfg.Auth.Mock.ExistingEmail,
	}
}

func (m *MockIdentity) Exists(_ context.Context, email string) (bool, error) {
	return m.ExistingEmail != "" && email == m.ExistingEmail, nil
}

func (m *MockIdentity) Authenticate(_ context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(m.Email) == "" {
		return false, nil
	}
	return email == m.Email && password == m.Password, nil
}
