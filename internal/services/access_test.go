package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mkbpilot/mkb-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAccessService(db *gorm.DB) *AccessService {
	return NewAccessService(db, newNotificationService(db), zap.NewNop())
}

func seedPole(t *testing.T, db *gorm.DB, name string) models.Pole {
	t.Helper()
	pole := models.Pole{Name: name, Description: name}
	if err := db.Create(&pole).Error; err != nil {
		t.Fatalf("seed pole: %v", err)
	}
	return pole
}

func seedRole(t *testing.T, db *gorm.DB, name string, niveau int) models.Role {
	t.Helper()
	role := models.Role{Name: name, Niveau: niveau}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return role
}

func TestAssignPoleDuplicateConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccessService(db)
	user := seedUser(t, db, "user@mkb.fr")
	pole := seedPole(t, db, "Commercial")

	if _, err := svc.AssignPole(context.Background(), user.ID, pole.ID, "admin"); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if _, err := svc.AssignPole(context.Background(), user.ID, pole.ID, "admin"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate assign, got %v", err)
	}

	var count int64
	db.Model(&models.UserPole{}).Where("user_id = ? AND pole_id = ?", user.ID, pole.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one assignment row, got %d", count)
	}
}

func TestAssignPoleNotifiesUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccessService(db)
	user := seedUser(t, db, "user@mkb.fr")
	pole := seedPole(t, db, "Technique")

	if _, err := svc.AssignPole(context.Background(), user.ID, pole.ID, "chef@mkb.fr"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	var notif models.Notification
	if err := db.Where("user_id = ?", user.ID).First(&notif).Error; err != nil {
		t.Fatalf("expected a notification row: %v", err)
	}
	if notif.Type != models.TypeSuccess || notif.Category != models.CategoryUser {
		t.Errorf("unexpected notification: type=%s category=%s", notif.Type, notif.Category)
	}
	if !strings.Contains(notif.Message, pole.Name) {
		t.Errorf("message should name the pole: %q", notif.Message)
	}
}

func TestRevokePoleMissingIsNoop(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccessService(db)
	user := seedUser(t, db, "user@mkb.fr")
	pole := seedPole(t, db, "Commercial")

	// No assignment exists; revocation is idempotent, not an error.
	if err := svc.RevokePole(context.Background(), user.ID, pole.ID, "admin"); err != nil {
		t.Fatalf("revoke of missing assignment must be a no-op, got %v", err)
	}

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("no-op revoke must not notify, got %d notifications", count)
	}
}

func TestRevokePoleEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccessService(db)
	user := seedUser(t, db, "user@mkb.fr")
	pole := seedPole(t, db, "Commercial")

	if _, err := svc.AssignPole(context.Background(), user.ID, pole.ID, "admin"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := svc.RevokePole(context.Background(), user.ID, pole.ID, "admin"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	var count int64
	db.Model(&models.UserPole{}).Where("user_id = ? AND pole_id = ?", user.ID, pole.ID).Count(&count)
	if count != 0 {
		t.Errorf("assignment row should be gone, got %d", count)
	}

	var notif models.Notification
	err := db.Where("user_id = ? AND type = ? AND category = ?",
		user.ID, models.TypeWarning, models.CategoryUser).First(&notif).Error
	if err != nil {
		t.Fatalf("expected a revocation notification: %v", err)
	}
	if !strings.Contains(notif.Title, "retiré") {
		t.Errorf("revocation title should contain 'retiré', got %q", notif.Title)
	}
}

func TestChangeRoleUpsert(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccessService(db)
	user := seedUser(t, db, "user@mkb.fr")
	collab := seedRole(t, db, "Collaborateur", 4)
	admin := seedRole(t, db, "Admin", 1)

	if err := svc.ChangeRole(context.Background(), user.ID, collab.ID, "admin"); err != nil {
		t.Fatalf("first change: %v", err)
	}
	if err := svc.ChangeRole(context.Background(), user.ID, admin.ID, "admin"); err != nil {
		t.Fatalf("second change: %v", err)
	}

	var rows []models.UserRole
	db.Where("user_id = ?", user.ID).Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("a user holds at most one role, got %d rows", len(rows))
	}
	if rows[0].RoleID != admin.ID {
		t.Errorf("expected role to be replaced")
	}
}

func TestSetActiveStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccessService(db)
	user := seedUser(t, db, "user@mkb.fr")

	if err := svc.SetActiveStatus(context.Background(), user.ID, false, "admin"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	var loaded models.User
	db.First(&loaded, "id = ?", user.ID)
	if loaded.Active {
		t.Errorf("expected active=false")
	}

	var notif models.Notification
	if err := db.Where("user_id = ? AND type = ?", user.ID, models.TypeWarning).First(&notif).Error; err != nil {
		t.Errorf("expected a deactivation notification: %v", err)
	}
}

func TestHasAccess(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccessService(db)
	user := seedUser(t, db, "user@mkb.fr")
	pole := seedPole(t, db, "Commercial")
	role := seedRole(t, db, "Responsable", 3)

	// No assignment at all: false, never an error.
	if svc.HasAccess(context.Background(), user.ID, "Commercial", 5) {
		t.Errorf("expected false without assignment")
	}

	if _, err := svc.AssignPole(context.Background(), user.ID, pole.ID, "admin"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Pole held but no role row yet.
	if svc.HasAccess(context.Background(), user.ID, "Commercial", 5) {
		t.Errorf("expected false without a role")
	}

	if err := svc.ChangeRole(context.Background(), user.ID, role.ID, "admin"); err != nil {
		t.Fatalf("change role: %v", err)
	}

	if !svc.HasAccess(context.Background(), user.ID, "Commercial", 3) {
		t.Errorf("niveau 3 should satisfy required level 3")
	}
	if !svc.HasAccess(context.Background(), user.ID, "Commercial", 5) {
		t.Errorf("niveau 3 should satisfy required level 5")
	}
	if svc.HasAccess(context.Background(), user.ID, "Commercial", 2) {
		t.Errorf("niveau 3 must not satisfy required level 2")
	}
	if svc.HasAccess(context.Background(), user.ID, "Technique", 5) {
		t.Errorf("access is scoped per pole")
	}
}
