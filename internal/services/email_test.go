package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mkbpilot/mkb-api/internal/config"
	"github.com/mkbpilot/mkb-api/internal/models"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []OutboundEmail
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg OutboundEmail) (string, error) {
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return "", f.err
	}
	return "msg-123", nil
}

func emailTestConfig() *config.Config {
	return &config.Config{
		SendGridAPIKey:    "key",
		SendGridFromEmail: "noreply@mkb.fr",
		SendGridFromName:  "MKB Pilot",
	}
}

func TestSendDocumentWritesAuditRowOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{}
	svc := NewEmailService(db, sender, emailTestConfig(), zap.NewNop())

	result, err := svc.SendDocument(context.Background(), SendDocumentInput{
		To:           "client@example.com",
		Subject:      "Votre devis",
		Body:         "Veuillez trouver votre devis ci-joint.",
		DocumentType: "quote",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !result.Success || result.MessageID != "msg-123" {
		t.Errorf("unexpected result: %+v", result)
	}

	var entry models.EmailLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("expected an audit row: %v", err)
	}
	if !entry.Success || entry.Recipient != "client@example.com" {
		t.Errorf("unexpected audit row: %+v", entry)
	}
}

func TestSendDocumentWritesAuditRowOnFailure(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeSender{err: errors.New("provider down")}
	svc := NewEmailService(db, sender, emailTestConfig(), zap.NewNop())

	result, err := svc.SendDocument(context.Background(), SendDocumentInput{
		To:      "client@example.com",
		Subject: "Votre facture",
	})
	if err != nil {
		t.Fatalf("provider failure must be a structured result, got error %v", err)
	}
	if result.Success || result.Error == "" {
		t.Errorf("expected failure result, got %+v", result)
	}

	var entry models.EmailLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("audit row must be written on failure too: %v", err)
	}
	if entry.Success || entry.ErrorText == "" {
		t.Errorf("unexpected audit row: %+v", entry)
	}
}

func TestSendDocumentMissingConfiguration(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEmailService(db, &fakeSender{}, &config.Config{}, zap.NewNop())

	_, err := svc.SendDocument(context.Background(), SendDocumentInput{
		To:      "client@example.com",
		Subject: "s",
	})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}
