package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/mkbpilot/mkb-api/internal/handlers"
	"github.com/mkbpilot/mkb-api/internal/middleware"
	"github.com/mkbpilot/mkb-api/internal/services"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Notifications *handlers.NotificationHandler
	Poles         *handlers.PoleHandler
	Users         *handlers.UserHandler
	Contacts      *handlers.ContactHandler
	Vehicles      *handlers.VehicleHandler
	Documents     *handlers.DocumentHandler
	WS            *handlers.WSHandler
	Access        *services.AccessService
}

func Setup(app *fiber.App, h Handlers) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", h.Auth.GetMe)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notifications.List)
	notifications.Post("/", h.Notifications.Create)
	notifications.Post("/mark-all-read", h.Notifications.MarkAllRead)
	notifications.Patch("/:id", h.Notifications.MarkRead)
	notifications.Delete("/:id", h.Notifications.Delete)

	// Poles & user administration (admin niveau required)
	admin := protected.Group("/", middleware.RequirePole(h.Access, "Administration", 2))
	admin.Post("/poles/assign", h.Poles.Assign)
	admin.Delete("/poles/assign", h.Poles.Revoke)
	admin.Get("/users", h.Users.List)
	admin.Put("/users/:id/role", h.Users.ChangeRole)
	admin.Put("/users/:id/status", h.Users.SetStatus)

	protected.Get("/poles", h.Poles.List)

	// CRM: contacts (Commercial pole)
	contacts := protected.Group("/contacts", middleware.RequirePole(h.Access, "Commercial", 4))
	contacts.Get("/", h.Contacts.List)
	contacts.Post("/", h.Contacts.Create)
	contacts.Get("/:id", h.Contacts.Get)
	contacts.Put("/:id", h.Contacts.Update)
	contacts.Delete("/:id", h.Contacts.Delete)

	// Stock: vehicles (Commercial pole)
	vehicles := protected.Group("/vehicles", middleware.RequirePole(h.Access, "Commercial", 4))
	vehicles.Get("/", h.Vehicles.List)
	vehicles.Post("/", h.Vehicles.Create)
	vehicles.Get("/:id", h.Vehicles.Get)
	vehicles.Put("/:id", h.Vehicles.Update)
	vehicles.Delete("/:id", h.Vehicles.Delete)
	vehicles.Post("/:id/photo", h.Vehicles.UploadPhoto)

	// Documents
	documents := protected.Group("/documents")
	documents.Post("/pdf", h.Documents.GeneratePDF)
	documents.Post("/send", h.Documents.SendDocument)

	// WebSocket notification stream
	app.Use("/ws", h.WS.Upgrade())
	app.Get("/ws/notifications", websocket.New(h.WS.Handle))
}
