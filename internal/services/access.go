package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkbpilot/mkb-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccessService manages pole assignments and role changes. Each
// mutation fires a best-effort notification to the affected user;
// notification failure never fails the primary action.
//
// Admin privilege is checked by the route guard, not re-derived here.
type AccessService struct {
	db    *gorm.DB
	notif *NotificationService
	log   *zap.Logger
}

func NewAccessService(db *gorm.DB, notif *NotificationService, log *zap.Logger) *AccessService {
	return &AccessService{db: db, notif: notif, log: log}
}

// AssignPole grants a user access to a pole. Returns ErrConflict if
// the assignment already exists.
func (s *AccessService) AssignPole(ctx context.Context, userID, poleID uuid.UUID, grantedBy string) (*models.UserPole, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	var pole models.Pole
	if err := s.db.WithContext(ctx).First(&pole, "id = ?", poleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: pole", ErrNotFound)
		}
		return nil, err
	}

	var existing models.UserPole
	err := s.db.WithContext(ctx).Where("user_id = ? AND pole_id = ?", userID, poleID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: user already has access to this pole", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assignment := models.UserPole{UserID: userID, PoleID: poleID}
	if err := s.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		return nil, err
	}

	s.notify(ctx, userID, "Accès accordé",
		fmt.Sprintf("L'accès au pôle %s vous a été accordé par %s.", pole.Name, byName(grantedBy)),
		models.TypeSuccess)
	return &assignment, nil
}

// RevokePole removes a pole assignment. Revoking an assignment that
// does not exist is a silent no-op so revocation stays idempotent.
func (s *AccessService) RevokePole(ctx context.Context, userID, poleID uuid.UUID, revokedBy string) error {
	var pole models.Pole
	if err := s.db.WithContext(ctx).First(&pole, "id = ?", poleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: pole", ErrNotFound)
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND pole_id = ?", userID, poleID).
		Delete(&models.UserPole{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	s.notify(ctx, userID, "Accès retiré",
		fmt.Sprintf("L'accès au pôle %s vous a été retiré par %s.", pole.Name, byName(revokedBy)),
		models.TypeWarning)
	return nil
}

// ChangeRole upserts the user's single role row.
func (s *AccessService) ChangeRole(ctx context.Context, userID, roleID uuid.UUID, changedBy string) error {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: role", ErrNotFound)
		}
		return err
	}

	var current models.UserRole
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&current).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Model(&current).Update("role_id", roleID).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error; err != nil {
			return err
		}
	default:
		return err
	}

	s.notify(ctx, userID, "Rôle mis à jour",
		fmt.Sprintf("Votre rôle est maintenant %s (modifié par %s).", role.Name, byName(changedBy)),
		models.TypeInfo)
	return nil
}

// SetActiveStatus toggles the account flag and notifies the user.
func (s *AccessService) SetActiveStatus(ctx context.Context, userID uuid.UUID, active bool, changedBy string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	if active {
		s.notify(ctx, userID, "Compte activé",
			fmt.Sprintf("Votre compte a été activé par %s.", byName(changedBy)),
			models.TypeSuccess)
	} else {
		s.notify(ctx, userID, "Compte désactivé",
			fmt.Sprintf("Votre compte a été désactivé par %s.", byName(changedBy)),
			models.TypeWarning)
	}
	return nil
}

// HasAccess reports whether the user holds the named pole with a role
// niveau at least as privileged as requiredLevel (lower is stronger).
// Pure read: returns false, never an error, on missing assignments.
func (s *AccessService) HasAccess(ctx context.Context, userID uuid.UUID, poleName string, requiredLevel int) bool {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserPole{}).
		Joins("JOIN poles ON poles.id = user_poles.pole_id").
		Where("user_poles.user_id = ? AND poles.name = ?", userID, poleName).
		Count(&count).Error
	if err != nil || count == 0 {
		return false
	}

	var userRole models.UserRole
	err = s.db.WithContext(ctx).Preload("Role").Where("user_id = ?", userID).First(&userRole).Error
	if err != nil || userRole.Role == nil {
		return false
	}
	return userRole.Role.Niveau <= requiredLevel
}

func (s *AccessService) notify(ctx context.Context, userID uuid.UUID, title, message, typ string) {
	_, err := s.notif.Create(ctx, CreateNotificationInput{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     typ,
		Category: models.CategoryUser,
	})
	if err != nil {
		s.log.Warn("access notification failed",
			zap.String("userId", userID.String()),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}

func byName(name string) string {
	if name == "" {
		return "un administrateur"
	}
	return name
}
