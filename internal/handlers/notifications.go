package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/middleware"
	"github.com/mkbpilot/mkb-api/internal/services"
)

type NotificationHandler struct {
	Svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Svc: svc}
}

// List returns paginated notifications for the current user
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	notifications, total, unread, err := h.Svc.List(c.Context(), userID, limit, offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"total":         total,
		"unread":        unread,
	})
}

// Create inserts a notification for any recipient. Senders identify
// themselves through their token; system notifications go through the
// services layer directly.
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	senderID := middleware.GetUserID(c)

	var req struct {
		RecipientUserID string `json:"recipient_user_id"`
		Title           string `json:"title"`
		Message         string `json:"message"`
		Type            string `json:"type"`
		Category        string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.RecipientUserID == "" || req.Title == "" || req.Message == "" || req.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "recipient_user_id, title, message and type are required",
		})
	}

	recipientID, err := uuid.Parse(req.RecipientUserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipient ID",
		})
	}

	notif, err := h.Svc.Create(c.Context(), services.CreateNotificationInput{
		UserID:   recipientID,
		SenderID: &senderID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"notification_id": notif.ID,
		"message":         "Notification created",
	})
}

// MarkRead marks a single notification as read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	notif, err := h.Svc.MarkRead(c.Context(), userID, notifID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"notification": notif})
}

// MarkAllRead marks all notifications as read for the current user
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if err := h.Svc.MarkAllRead(c.Context(), userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete removes a notification owned by the current user
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	if err := h.Svc.Delete(c.Context(), userID, notifID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
