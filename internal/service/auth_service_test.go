package service

import (
	"classquiz_backend/internal/config"
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"errors"
	"testing"
	"time"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "张三", Email: "zhangsan@example.com", Password: "secret-pass", Role: model.Student}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "secret-pass" {
		t.Error("password should be hashed at rest")
	}

	token, logged, err := auth.Login("zhangsan@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if logged.ID != user.ID {
		t.Errorf("logged in user %d, want %d", logged.ID, user.ID)
	}

	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Student {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)

	first := &model.User{Name: "a", Email: "dup@example.com", Password: "password1", Role: model.Teacher}
	if err := auth.Register(first); err != nil {
		t.Fatalf("register: %v", err)
	}

	second := &model.User{Name: "b", Email: "dup@example.com", Password: "password2", Role: model.Student}
	if err := auth.Register(second); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "a", Email: "a@example.com", Password: "right-pass", Role: model.Student}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 密码错误和邮箱不存在返回同一个哨兵错误，不泄露账号是否存在
	if _, _, err := auth.Login("a@example.com", "wrong-pass"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := auth.Login("nobody@example.com", "whatever"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

// 非法角色静默降级为学生
func TestRegisterClampsRole(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "a", Email: "admin-wannabe@example.com", Password: "password", Role: model.Admin}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.Student {
		t.Errorf("role = %v, want student", user.Role)
	}
}
