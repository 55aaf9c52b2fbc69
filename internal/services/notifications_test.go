package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Role{}, &models.UserRole{},
		&models.Pole{}, &models.UserPole{}, &models.Notification{},
		&models.EmailLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", FirstName: "Test", LastName: "User", Active: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func newNotificationService(db *gorm.DB) *NotificationService {
	return NewNotificationService(db, nil, nil, zap.NewNop())
}

func TestCreateThenList(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	user := seedUser(t, db, "recipient@mkb.fr")

	created, err := svc.Create(context.Background(), CreateNotificationInput{
		UserID:  user.ID,
		Title:   "Nouveau véhicule",
		Message: "Un véhicule a été ajouté au stock",
		Type:    models.TypeInfo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Category != models.CategorySystem {
		t.Errorf("expected default category system, got %q", created.Category)
	}

	list, total, unread, err := svc.List(context.Background(), user.ID, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || unread != 1 || len(list) != 1 {
		t.Fatalf("expected 1 unread row, got total=%d unread=%d len=%d", total, unread, len(list))
	}
	if list[0].ID != created.ID || list[0].Read {
		t.Errorf("unexpected row: %+v", list[0])
	}
}

func TestCreateWithSenderPreloadsProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	recipient := seedUser(t, db, "recipient@mkb.fr")
	sender := seedUser(t, db, "sender@mkb.fr")

	_, err := svc.Create(context.Background(), CreateNotificationInput{
		UserID:   recipient.ID,
		SenderID: &sender.ID,
		Title:    "Message",
		Message:  "Bonjour",
		Type:     models.TypeInfo,
		Category: models.CategoryUser,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, _, _, err := svc.List(context.Background(), recipient.ID, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Sender == nil || list[0].Sender.Email != "sender@mkb.fr" {
		t.Errorf("expected sender preloaded, got %+v", list[0].Sender)
	}
}

// failQueriesTo makes queries whose destination matches the predicate
// fail, simulating a store outage on that query only.
func failQueriesTo(t *testing.T, db *gorm.DB, name string, match func(dest any) bool) {
	t.Helper()
	err := db.Callback().Query().Before("gorm:query").Register(name, func(tx *gorm.DB) {
		if match(tx.Statement.Dest) {
			tx.AddError(errors.New("store unavailable"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestListCountFailureIsAnError(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	user := seedUser(t, db, "recipient@mkb.fr")

	if _, err := svc.Create(context.Background(), CreateNotificationInput{
		UserID: user.ID, Title: "t", Message: "m", Type: models.TypeInfo,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Count queries write into *int64; the row query is untouched.
	failQueriesTo(t, db, "fail_counts", func(dest any) bool {
		_, ok := dest.(*int64)
		return ok
	})

	if _, _, _, err := svc.List(context.Background(), user.ID, 20, 0); err == nil {
		t.Fatal("a failed count must surface as an error, not as total=0 unread=0")
	}
}

func TestCreateSurvivesSenderJoinFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	recipient := seedUser(t, db, "recipient@mkb.fr")
	sender := seedUser(t, db, "sender@mkb.fr")

	// Fail the post-insert re-fetch that loads the sender profile; the
	// recipient lookup (*models.User) and the insert are untouched.
	failQueriesTo(t, db, "fail_refetch", func(dest any) bool {
		_, ok := dest.(*models.Notification)
		return ok
	})

	created, err := svc.Create(context.Background(), CreateNotificationInput{
		UserID:   recipient.ID,
		SenderID: &sender.ID,
		Title:    "Message",
		Message:  "Bonjour",
		Type:     models.TypeInfo,
		Category: models.CategoryUser,
	})
	if err != nil {
		t.Fatalf("create must succeed when the sender join cannot be loaded: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected a persisted notification")
	}

	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the row persisted, got %d", count)
	}
}

func TestCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	user := seedUser(t, db, "recipient@mkb.fr")

	cases := []struct {
		name string
		in   CreateNotificationInput
		want error
	}{
		{"missing title", CreateNotificationInput{UserID: user.ID, Message: "m", Type: models.TypeInfo}, ErrInvalid},
		{"missing message", CreateNotificationInput{UserID: user.ID, Title: "t", Type: models.TypeInfo}, ErrInvalid},
		{"missing type", CreateNotificationInput{UserID: user.ID, Title: "t", Message: "m"}, ErrInvalid},
		{"unknown type", CreateNotificationInput{UserID: user.ID, Title: "t", Message: "m", Type: "shout"}, ErrInvalid},
		{"unknown category", CreateNotificationInput{UserID: user.ID, Title: "t", Message: "m", Type: models.TypeInfo, Category: "misc"}, ErrInvalid},
		{"missing recipient", CreateNotificationInput{UserID: uuid.New(), Title: "t", Message: "m", Type: models.TypeInfo}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	user := seedUser(t, db, "recipient@mkb.fr")

	created, err := svc.Create(context.Background(), CreateNotificationInput{
		UserID: user.ID, Title: "t", Message: "m", Type: models.TypeInfo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.MarkRead(context.Background(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	second, err := svc.MarkRead(context.Background(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("second mark must not fail: %v", err)
	}
	if !first.Read || !second.Read {
		t.Errorf("expected read=true after both calls")
	}
}

func TestMarkReadWrongOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	owner := seedUser(t, db, "owner@mkb.fr")
	other := seedUser(t, db, "other@mkb.fr")

	created, _ := svc.Create(context.Background(), CreateNotificationInput{
		UserID: owner.ID, Title: "t", Message: "m", Type: models.TypeInfo,
	})

	if _, err := svc.MarkRead(context.Background(), other.ID, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign notification, got %v", err)
	}
}

func TestMarkAllReadScopedToRecipient(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	alice := seedUser(t, db, "alice@mkb.fr")
	bob := seedUser(t, db, "bob@mkb.fr")

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), CreateNotificationInput{
			UserID: alice.ID, Title: "t", Message: "m", Type: models.TypeInfo,
		}); err != nil {
			t.Fatalf("create alice: %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), CreateNotificationInput{
		UserID: bob.ID, Title: "t", Message: "m", Type: models.TypeInfo,
	}); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	if err := svc.MarkAllRead(context.Background(), alice.ID); err != nil {
		t.Fatalf("mark all: %v", err)
	}

	_, _, aliceUnread, _ := svc.List(context.Background(), alice.ID, 20, 0)
	_, _, bobUnread, _ := svc.List(context.Background(), bob.ID, 20, 0)
	if aliceUnread != 0 {
		t.Errorf("expected alice unread=0, got %d", aliceUnread)
	}
	if bobUnread != 1 {
		t.Errorf("mark-all-read must not touch other recipients, bob unread=%d", bobUnread)
	}
}

func TestDeleteOwnNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := newNotificationService(db)
	user := seedUser(t, db, "recipient@mkb.fr")

	created, _ := svc.Create(context.Background(), CreateNotificationInput{
		UserID: user.ID, Title: "t", Message: "m", Type: models.TypeInfo,
	})

	if err := svc.Delete(context.Background(), user.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), user.ID, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
