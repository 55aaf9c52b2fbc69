package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/mkbpilot/mkb-api/internal/pdf"
	"github.com/mkbpilot/mkb-api/internal/services"
)

type DocumentHandler struct {
	Gen   *pdf.Generator
	Email *services.EmailService
}

func NewDocumentHandler(gen *pdf.Generator, email *services.EmailService) *DocumentHandler {
	return &DocumentHandler{Gen: gen, Email: email}
}

// GeneratePDF renders a quote or invoice and returns the binary.
func (h *DocumentHandler) GeneratePDF(c *fiber.Ctx) error {
	var doc pdf.Document
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	data, err := h.Gen.Generate(doc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", documentFilename(doc)))
	return c.Send(data)
}

// SendDocument renders the document and emails it to the recipient.
// The dispatch result is returned as-is: a provider failure is a 200
// with success=false, not an error of the request itself.
func (h *DocumentHandler) SendDocument(c *fiber.Ctx) error {
	var req struct {
		To       string       `json:"to"`
		Subject  string       `json:"subject"`
		Body     string       `json:"body"`
		Document pdf.Document `json:"document"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.To == "" || req.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "to and subject are required",
		})
	}

	data, err := h.Gen.Generate(req.Document)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.Email.SendDocument(c.Context(), services.SendDocumentInput{
		To:             req.To,
		Subject:        req.Subject,
		Body:           req.Body,
		Attachment:     data,
		AttachmentName: documentFilename(req.Document),
		DocumentType:   req.Document.Type,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(result)
}

func documentFilename(doc pdf.Document) string {
	prefix := "facture"
	if doc.Type == pdf.TypeQuote {
		prefix = "devis"
	}
	return fmt.Sprintf("%s-%s.pdf", prefix, doc.Number)
}
