package database

import (
	"github.com/mkbpilot/mkb-api/internal/models"
	"gorm.io/gorm"
)

// Seed creates the default roles and poles if they are missing.
// Idempotent; safe to run on every startup.
func Seed(db *gorm.DB) error {
	roles := []models.Role{
		{Name: "Admin", Niveau: 1, Description: "Administration complète"},
		{Name: "Directeur", Niveau: 2, Description: "Direction de pôle"},
		{Name: "Responsable", Niveau: 3, Description: "Gestion d'équipe"},
		{Name: "Collaborateur", Niveau: 4, Description: "Saisie et consultation"},
		{Name: "Lecture", Niveau: 5, Description: "Consultation seule"},
	}
	for _, role := range roles {
		if err := db.Where(models.Role{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}

	poles := []models.Pole{
		{Name: "Commercial", Description: "Ventes et reprises"},
		{Name: "Technique", Description: "Atelier et préparation"},
		{Name: "Administration", Description: "Back-office et comptabilité"},
	}
	for _, pole := range poles {
		if err := db.Where(models.Pole{Name: pole.Name}).FirstOrCreate(&pole).Error; err != nil {
			return err
		}
	}
	return nil
}
