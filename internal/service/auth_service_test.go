package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewAuthService(newTestConfig(), repository.NewAdminRepository(db))
	return svc, db
}

func seedAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := models.Admin{Username: username, PasswordHash: hash}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}
	return &admin
}

func TestAdminLoginAndParseJWT(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "admin", "secret-password")

	admin, tokenString, expiresAt, err := svc.Login("admin", "secret-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if admin.LastLoginAt == nil {
		t.Fatal("last login time not updated")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("token already expired")
	}

	claims, err := svc.ParseJWT(tokenString)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAdminLoginInvalidCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedAdmin(t, svc, db, "admin", "secret-password")

	if _, _, _, err := svc.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "secret-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	if _, err := svc.ParseJWT("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	admin := seedAdmin(t, svc, db, "admin", "secret-password")

	if err := svc.ChangePassword(admin.ID, "wrong", "new-password-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "secret-password", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "secret-password", "new-password-123"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("admin", "new-password-123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
