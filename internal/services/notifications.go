package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/models"
	"github.com/mkbpilot/mkb-api/internal/realtime"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pusher delivers an OS-level notification to a user's device.
// Best-effort; implementations must not block the caller on failure.
type Pusher interface {
	SendToUser(userID uuid.UUID, title, body string, data map[string]string)
}

// NotificationService owns CRUD over notifications plus the change
// feed and push side effects that follow a write. Feed and push
// failures are logged and swallowed; only the store write decides the
// outcome of an operation.
type NotificationService struct {
	db   *gorm.DB
	feed *realtime.Feed
	push Pusher
	log  *zap.Logger
}

func NewNotificationService(db *gorm.DB, feed *realtime.Feed, push Pusher, log *zap.Logger) *NotificationService {
	return &NotificationService{db: db, feed: feed, push: push, log: log}
}

type CreateNotificationInput struct {
	UserID   uuid.UUID
	SenderID *uuid.UUID
	Title    string
	Message  string
	Type     string
	Category string
}

// Create validates the input, inserts the row, then emits the insert
// event and push best-effort.
func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	if in.UserID == uuid.Nil || in.Title == "" || in.Message == "" || in.Type == "" {
		return nil, fmt.Errorf("%w: recipient, title, message and type are required", ErrInvalid)
	}
	if !models.ValidNotificationType(in.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, in.Type)
	}
	if in.Category == "" {
		in.Category = models.CategorySystem
	}
	if !models.ValidNotificationCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalid, in.Category)
	}

	var recipient models.User
	if err := s.db.WithContext(ctx).First(&recipient, "id = ?", in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipient", ErrNotFound)
		}
		return nil, err
	}

	notif := models.Notification{
		UserID:   in.UserID,
		SenderID: in.SenderID,
		Title:    in.Title,
		Message:  in.Message,
		Type:     in.Type,
		Category: in.Category,
	}
	if err := s.db.WithContext(ctx).Create(&notif).Error; err != nil {
		return nil, err
	}
	if notif.SenderID != nil {
		if err := s.db.WithContext(ctx).Preload("Sender").First(&notif, "id = ?", notif.ID).Error; err != nil {
			s.log.Warn("sender preload failed",
				zap.String("notificationId", notif.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.emit(ctx, realtime.Event{Kind: realtime.EventInsert, Notification: notif})
	if s.push != nil {
		go s.push.SendToUser(notif.UserID, notif.Title, notif.Message, map[string]string{
			"notificationId": notif.ID.String(),
			"category":       notif.Category,
		})
	}
	return &notif, nil
}

// List returns the recipient's notifications newest first, with the
// sender profile preloaded, plus total and unread counts.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, int64, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, 0, err
	}

	var total, unread int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).Count(&unread).Error; err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unread, nil
}

// MarkRead flips read to true. Idempotent: marking an already-read
// notification succeeds and leaves the row unchanged.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	var notif models.Notification
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&notif).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: notification", ErrNotFound)
		}
		return nil, err
	}

	if !notif.Read {
		if err := s.db.WithContext(ctx).Model(&notif).Update("read", true).Error; err != nil {
			return nil, err
		}
		notif.Read = true
		s.emit(ctx, realtime.Event{Kind: realtime.EventUpdate, Notification: notif})
	}
	return &notif, nil
}

// MarkAllRead flips every unread row owned by the caller. Other
// recipients' rows are never touched.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// Delete hard-deletes one row owned by the caller.
func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	var notif models.Notification
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&notif).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification", ErrNotFound)
		}
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&notif).Error; err != nil {
		return err
	}
	s.emit(ctx, realtime.Event{Kind: realtime.EventDelete, Notification: notif})
	return nil
}

func (s *NotificationService) emit(ctx context.Context, ev realtime.Event) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, ev); err != nil {
		s.log.Warn("notification event publish failed",
			zap.String("kind", string(ev.Kind)),
			zap.String("notificationId", ev.Notification.ID.String()),
			zap.Error(err),
		)
	}
}
