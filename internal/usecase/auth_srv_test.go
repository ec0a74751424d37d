package usecase

import (
	"context"
	"strings"
	"testing"

	"matatubook/internal/data/entity"
	"matatubook/internal/dto/request"
	"matatubook/pkg/utils"
)

func registerReq() *request.RegisterRequest {
	return &request.RegisterRequest{
		FullName:    "Wanjiku Kamau",
		Email:       "wanjiku@example.com",
		Password:    "hunter2x",
		PhoneNumber: "0712345678",
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(nil)

	resp, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if resp.Token == "" {
		t.Errorf("expected a session token")
	}
	if resp.Role != entity.RoleCustomer {
		t.Errorf("expected customer role, got %s", resp.Role)
	}
	if resp.PhoneNumber != "254712345678" {
		t.Errorf("expected normalized phone, got %s", resp.PhoneNumber)
	}

	user, _ := env.users.FindByEmail(context.Background(), "wanjiku@example.com")
	if user == nil {
		t.Fatalf("user not persisted")
	}
	if user.PasswordHash == "hunter2x" {
		t.Errorf("password must be hashed")
	}
	if !utils.CheckPasswordHash("hunter2x", user.PasswordHash) {
		t.Errorf("stored hash does not verify")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(nil)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	req := registerReq()
	req.PhoneNumber = "0798765432"
	_, err := svc.Register(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "email already registered") {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(nil)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	req := registerReq()
	req.Email = "other@example.com"
	// Same number in a different format still collides after normalization
	req.PhoneNumber = "+254712345678"
	_, err := svc.Register(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "phone number already registered") {
		t.Fatalf("expected duplicate phone error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(nil)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "wanjiku@example.com",
		Password: "hunter2x",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Errorf("expected a session token")
	}

	session, _ := env.sessions.FindValidSession(context.Background(), resp.Token)
	if session == nil {
		t.Errorf("session not persisted")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(nil)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "wanjiku@example.com",
		Password: "wrongpass",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(nil)

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user, _ := env.users.FindByEmail(context.Background(), "wanjiku@example.com")
	user.IsActive = false

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "wanjiku@example.com",
		Password: "hunter2x",
	})
	if err == nil || !strings.Contains(err.Error(), "deactivated") {
		t.Fatalf("expected deactivated error, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(nil)

	resp, err := svc.Register(context.Background(), registerReq())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Logout(context.Background(), resp.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	session, _ := env.sessions.FindValidSession(context.Background(), resp.Token)
	if session != nil {
		t.Errorf("session should be revoked after logout")
	}
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(0)
	cfg := &utils.Config{
		Admin: utils.AdminConfig{
			Bootstrap: true,
			Email:     "admin@matatubook.co.ke",
			Password:  "changeme99",
			Phone:     "0700000000",
		},
	}
	svc := env.authService(cfg)

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	admin, _ := env.users.FindByEmail(context.Background(), "admin@matatubook.co.ke")
	if admin == nil {
		t.Fatalf("admin not created")
	}
	if admin.Role != entity.RoleSystemAdmin {
		t.Errorf("expected system_admin role, got %s", admin.Role)
	}
	if !admin.IsVerified {
		t.Errorf("admin should be verified")
	}

	// Second run is a no-op
	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("second EnsureAdmin failed: %v", err)
	}
	if len(env.users.users) != 1 {
		t.Errorf("expected a single admin account, got %d users", len(env.users.users))
	}
}

func TestEnsureAdminMissingConfig(t *testing.T) {
	env := newTestEnv(0)
	svc := env.authService(&utils.Config{Admin: utils.AdminConfig{Bootstrap: true}})

	if err := svc.EnsureAdmin(context.Background()); err == nil {
		t.Fatalf("expected error for empty admin credentials")
	}
}
