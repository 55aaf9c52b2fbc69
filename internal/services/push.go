package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// PushService delivers OS-level notifications via Firebase Cloud
// Messaging. Push is always best-effort: a nil client (no service
// account configured) turns every send into a no-op.
type PushService struct {
	client *messaging.Client
	db     *gorm.DB
	log    *zap.Logger
}

// NewPushService initializes FCM. Degrades gracefully to a disabled
// service when no service account is configured (dev mode).
func NewPushService(ctx context.Context, db *gorm.DB, serviceAccountPath string, log *zap.Logger) *PushService {
	if serviceAccountPath == "" {
		log.Info("push notifications disabled, no FCM service account configured")
		return &PushService{db: db, log: log}
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Warn("FCM app init failed, push disabled", zap.Error(err))
		return &PushService{db: db, log: log}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Warn("FCM messaging client failed, push disabled", zap.Error(err))
		return &PushService{db: db, log: log}
	}

	log.Info("push notifications enabled")
	return &PushService{client: client, db: db, log: log}
}

// SendToUser pushes to the user's registered device. No-op if push is
// disabled or the user has no device token.
func (p *PushService) SendToUser(userID uuid.UUID, title, body string, data map[string]string) {
	if p.client == nil {
		return
	}

	var user models.User
	if err := p.db.Select("fcm_token").First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	if user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if data != nil {
		msg.Data = data
	}

	if _, err := p.client.Send(context.Background(), msg); err != nil {
		p.log.Warn("FCM send failed", zap.String("userId", userID.String()), zap.Error(err))
	}
}
