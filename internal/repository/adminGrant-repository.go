package repository

import (
	"github.com/nnypa/endorsement_service/internal/domain"
	"gorm.io/gorm"
)

type AdminGrantRepository interface {
	// HasGrant reports whether a grant row exists for the user. Grants are
	// written out-of-band by operators; this repository never creates them.
	HasGrant(userID uint) (bool, error)
	FindByUserID(userID uint) (*domain.AdminGrant, error)
}

type adminGrantRepository struct {
	db *gorm.DB
}

func NewAdminGrantRepository(db *gorm.DB) AdminGrantRepository {
	return &adminGrantRepository{db: db}
}

func (g *adminGrantRepository) HasGrant(userID uint) (bool, error) {
	var count int64
	err := g.db.Model(&domain.AdminGrant{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *adminGrantRepository) FindByUserID(userID uint) (*domain.AdminGrant, error) {
	var grant domain.AdminGrant
	if err := g.db.Where("user_id = ?", userID).First(&grant).Error; err != nil {
		return nil, err
	}
	return &grant, nil
}
