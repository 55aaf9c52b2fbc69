package services

import (
	"context"
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/config"
	"github.com/mkbpilot/mkb-api/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sender is the transactional email provider boundary.
type Sender interface {
	Send(ctx context.Context, msg OutboundEmail) (messageID string, err error)
}

type OutboundEmail struct {
	FromName       string
	FromEmail      string
	To             string
	Subject        string
	PlainText      string
	HTMLBody       string
	Attachment     []byte
	AttachmentName string
}

// SendGridSender sends through SendGrid's v3 mail API.
type SendGridSender struct {
	client *sendgrid.Client
}

func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey)}
}

func (s *SendGridSender) Send(ctx context.Context, msg OutboundEmail) (string, error) {
	from := mail.NewEmail(msg.FromName, msg.FromEmail)
	to := mail.NewEmail("", msg.To)
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTMLBody)

	if len(msg.Attachment) > 0 {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(msg.Attachment))
		a.SetType("application/pdf")
		a.SetFilename(msg.AttachmentName)
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return "", err
	}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

// DispatchResult is reported to the caller instead of a raised error:
// provider failure is an outcome, not an exception.
type DispatchResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EmailService dispatches documents and messages and writes one audit
// row per attempt.
type EmailService struct {
	db     *gorm.DB
	sender Sender
	cfg    *config.Config
	log    *zap.Logger
}

func NewEmailService(db *gorm.DB, sender Sender, cfg *config.Config, log *zap.Logger) *EmailService {
	return &EmailService{db: db, sender: sender, cfg: cfg, log: log}
}

type SendDocumentInput struct {
	To             string
	Subject        string
	Body           string
	Attachment     []byte
	AttachmentName string
	DocumentID     *uuid.UUID
	DocumentType   string
}

// SendDocument sends through the provider and records the attempt. The
// audit row is written whatever the provider outcome; a failure to
// write it is logged and never masks the send result.
func (s *EmailService) SendDocument(ctx context.Context, in SendDocumentInput) (DispatchResult, error) {
	if in.To == "" || in.Subject == "" {
		return DispatchResult{}, ErrInvalid
	}
	if s.cfg.SendGridAPIKey == "" || s.cfg.SendGridFromEmail == "" {
		return DispatchResult{}, ErrConfiguration
	}

	messageID, sendErr := s.sender.Send(ctx, OutboundEmail{
		FromName:       s.cfg.SendGridFromName,
		FromEmail:      s.cfg.SendGridFromEmail,
		To:             in.To,
		Subject:        in.Subject,
		PlainText:      in.Body,
		HTMLBody:       in.Body,
		Attachment:     in.Attachment,
		AttachmentName: in.AttachmentName,
	})

	entry := models.EmailLog{
		Recipient:    in.To,
		Subject:      in.Subject,
		DocumentID:   in.DocumentID,
		DocumentType: in.DocumentType,
		Success:      sendErr == nil,
	}
	if sendErr != nil {
		entry.ErrorText = sendErr.Error()
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error("email audit log write failed", zap.String("to", in.To), zap.Error(err))
	}

	if sendErr != nil {
		s.log.Warn("email send failed", zap.String("to", in.To), zap.Error(sendErr))
		return DispatchResult{Success: false, Error: sendErr.Error()}, nil
	}
	return DispatchResult{Success: true, MessageID: messageID}, nil
}
