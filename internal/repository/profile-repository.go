package repository

import (
	"github.com/nnypa/endorsement_service/internal/domain"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Upsert(profile *domain.Profile) error
	FindByUserID(userID uint) (*domain.Profile, error)
	ListAll(limit, offset int) ([]domain.Profile, error)
	Count() (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (p *profileRepository) Upsert(profile *domain.Profile) error {
	return p.db.Where("user_id = ?", profile.UserID).Assign(profile).FirstOrCreate(profile).Error
}

func (p *profileRepository) FindByUserID(userID uint) (*domain.Profile, error) {
	var profile domain.Profile
	if err := p.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *profileRepository) ListAll(limit, offset int) ([]domain.Profile, error) {
	var profiles []domain.Profile

	err := p.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (p *profileRepository) Count() (int64, error) {
	var count int64
	if err := p.db.Model(&domain.Profile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
