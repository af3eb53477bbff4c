package repository

import (
	"errors"
	"time"

	"github.com/nnypa/endorsement_service/internal/domain"
	"gorm.io/gorm"
)

// ErrAlreadyReviewed is returned when a review decision targets an
// application that has already left pending.
var ErrAlreadyReviewed = errors.New("application already reviewed")

type ApplicationRepository interface {
	CreateWithDocuments(app *domain.EndorsementApplication, docs []domain.ApplicationDocument) error

	FindByID(appID uint) (*domain.EndorsementApplication, error)
	ListByUserID(userID uint) ([]domain.EndorsementApplication, error)
	ListAll(limit, offset int) ([]domain.EndorsementApplication, error)

	// Review performs the pending -> approved|rejected transition. The
	// update is guarded on the current status so a decision that races a
	// prior one fails with ErrAlreadyReviewed instead of overwriting it.
	Review(appID uint, adminID uint, decision domain.ReviewDecision, score *int, notes, analysis *string) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (a *applicationRepository) CreateWithDocuments(app *domain.EndorsementApplication, docs []domain.ApplicationDocument) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}

		if len(docs) == 0 {
			return nil
		}

		for i := range docs {
			docs[i].ApplicationID = app.ID
		}
		return tx.Create(&docs).Error
	})
}

func (a *applicationRepository) FindByID(appID uint) (*domain.EndorsementApplication, error) {
	var app domain.EndorsementApplication
	err := a.db.
		Preload("Documents").
		First(&app, appID).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *applicationRepository) ListByUserID(userID uint) ([]domain.EndorsementApplication, error) {
	var apps []domain.EndorsementApplication

	err := a.db.
		Preload("Documents").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (a *applicationRepository) ListAll(limit, offset int) ([]domain.EndorsementApplication, error) {
	var apps []domain.EndorsementApplication

	err := a.db.
		Preload("Documents").
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (a *applicationRepository) Review(appID uint, adminID uint, decision domain.ReviewDecision, score *int, notes, analysis *string) error {
	now := time.Now()

	status := domain.ApplicationStatusApproved
	if decision == domain.ReviewDecisionRejected {
		status = domain.ApplicationStatusRejected
	}

	return a.db.Transaction(func(tx *gorm.DB) error {
		var app domain.EndorsementApplication
		if err := tx.First(&app, appID).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"application_status": status,
			"reviewed_by":        adminID,
			"reviewed_at":        now,
		}
		if score != nil {
			updates["nnypa_score"] = *score
		}
		if notes != nil {
			updates["admin_notes"] = *notes
		}
		if analysis != nil {
			updates["nnypa_analysis"] = *analysis
		}

		res := tx.Model(&domain.EndorsementApplication{}).
			Where("id = ? AND application_status = ?", appID, domain.ApplicationStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReviewed
		}
		return nil
	})
}
