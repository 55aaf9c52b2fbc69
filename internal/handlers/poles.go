package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/models"
	"github.com/mkbpilot/mkb-api/internal/services"
	"gorm.io/gorm"
)

type PoleHandler struct {
	DB     *gorm.DB
	Access *services.AccessService
}

func NewPoleHandler(db *gorm.DB, access *services.AccessService) *PoleHandler {
	return &PoleHandler{DB: db, Access: access}
}

func (h *PoleHandler) List(c *fiber.Ctx) error {
	var poles []models.Pole
	if err := h.DB.Order("name").Find(&poles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"poles": poles})
}

type assignRequest struct {
	UserID string `json:"user_id"`
	PoleID string `json:"pole_id"`
}

func (r assignRequest) parse() (userID, poleID uuid.UUID, err error) {
	userID, err = uuid.Parse(r.UserID)
	if err != nil {
		return
	}
	poleID, err = uuid.Parse(r.PoleID)
	return
}

func (h *PoleHandler) Assign(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.PoleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and pole_id are required",
		})
	}
	userID, poleID, err := req.parse()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user or pole ID",
		})
	}

	assignment, err := h.Access.AssignPole(c.Context(), userID, poleID, actorName(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": assignment})
}

func (h *PoleHandler) Revoke(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.PoleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and pole_id are required",
		})
	}
	userID, poleID, err := req.parse()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user or pole ID",
		})
	}

	if err := h.Access.RevokePole(c.Context(), userID, poleID, actorName(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// actorName identifies the acting admin in notification messages.
func actorName(c *fiber.Ctx) string {
	if email, ok := c.Locals("email").(string); ok {
		return email
	}
	return ""
}
