package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/nnypa/endorsement_service/internal/apperr"
	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/nnypa/endorsement_service/internal/dto"
	"github.com/nnypa/endorsement_service/internal/interfaces"
	"github.com/nnypa/endorsement_service/internal/repository"
	"gorm.io/gorm"
)

const (
	documentFolder = "nnypadocuments"
	maxFileSize    = 12 * 1024 * 1024 // 12MB
)

type ApplicationService interface {
	// Applicant
	Submit(ctx context.Context, userID uint, input dto.ApplicationSubmit) (*dto.ApplicationSubmitResponse, error)
	GetApplication(actorID uint, appID uint) (*domain.EndorsementApplication, error)
	ListOwn(userID uint) ([]dto.ApplicationSummary, error)

	// Admin
	Review(appID uint, actorID uint, input dto.ReviewRequest) error
	ListAll(actorID uint, limit, offset int) ([]domain.EndorsementApplication, error)
	Stats(actorID uint) (*dto.AdminStats, error)
	DocumentURL(actorID uint, appID uint, docType string) (*dto.DocumentURLResponse, error)
}

type applicationService struct {
	appRepo     repository.ApplicationRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	gate        *AccessGate

	uploader interfaces.Uploader
	producer interfaces.ProducerHandler
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	gate *AccessGate,
	uploader interfaces.Uploader,
	producer interfaces.ProducerHandler,
) ApplicationService {
	return &applicationService{
		appRepo:     appRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		gate:        gate,
		uploader:    uploader,
		producer:    producer,
	}
}

/* =========================
   SUBMISSION
========================= */

func (s *applicationService) Submit(ctx context.Context, userID uint, input dto.ApplicationSubmit) (*dto.ApplicationSubmitResponse, error) {
	if userID == 0 {
		return nil, apperr.Unauthenticated("login required to submit an application")
	}
	if s.uploader == nil {
		return nil, errors.New("uploader is not configured")
	}

	appType := domain.ApplicationType(strings.TrimSpace(input.ApplicationType))
	if appType == "" {
		appType = domain.ApplicationTypeBusinessEndorsement
	}
	if appType != domain.ApplicationTypeBusinessEndorsement && appType != domain.ApplicationTypePolicyAlignment {
		return nil, apperr.Validationf("unknown application_type %q", input.ApplicationType)
	}

	// Required intake fields. Checked before any upload so a bad form
	// never leaves blobs behind.
	required := []struct {
		name  string
		value string
	}{
		{"business_name", input.BusinessName},
		{"business_type", input.BusinessType},
		{"business_sector", input.BusinessSector},
		{"business_description", input.BusinessDescription},
		{"business_state", input.BusinessState},
		{"business_lga", input.BusinessLGA},
		{"business_address", input.BusinessAddress},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, apperr.Validationf("%s is required", f.name)
		}
	}

	for i, f := range input.Files {
		if strings.TrimSpace(f.Filename) == "" || len(f.Bytes) == 0 {
			return nil, apperr.Validationf("file #%d is empty", i+1)
		}
		if len(f.Bytes) > maxFileSize {
			return nil, apperr.Validationf("file #%d exceeds the 12MB limit", i+1)
		}
		if !domain.DocumentType(f.DocType).Known() {
			return nil, apperr.Validationf("file #%d has unknown doc_type %q", i+1, f.DocType)
		}
	}

	user, err := s.userRepo.FindUserById(userID)
	if err != nil || user == nil {
		return nil, apperr.NotFound("user not found")
	}

	// Upload files first, then write the row. A failed metadata write
	// leaves the already-uploaded blobs orphaned; they are logged, not
	// rolled back.
	uploaded := make([]string, 0, len(input.Files))
	docs := make([]domain.ApplicationDocument, 0, len(input.Files))
	for i, f := range input.Files {
		name := fmt.Sprintf("%s_%d%s", f.DocType, time.Now().UnixNano(), strings.ToLower(filepath.Ext(f.Filename)))
		folder := fmt.Sprintf("%s/%d", documentFolder, userID)

		url, upErr := s.uploader.UploadBytes(ctx, folder, name, f.Bytes)
		if upErr != nil {
			logOrphanedUploads(uploaded)
			return nil, apperr.Storage(fmt.Sprintf("upload file #%d (%s)", i+1, f.DocType), upErr)
		}
		uploaded = append(uploaded, url)

		size := int64(len(f.Bytes))
		doc := domain.ApplicationDocument{
			DocType:  domain.DocumentType(f.DocType),
			FileURL:  url,
			FileSize: &size,
		}
		if mt := strings.TrimSpace(f.MimeType); mt != "" {
			doc.MimeType = &mt
		}
		docs = append(docs, doc)
	}

	app := &domain.EndorsementApplication{
		UserID:          userID,
		ApplicationType: appType,
		Status:          domain.ApplicationStatusPending,

		BusinessName:        strings.TrimSpace(input.BusinessName),
		BusinessType:        strings.TrimSpace(input.BusinessType),
		BusinessSector:      strings.TrimSpace(input.BusinessSector),
		BusinessDescription: strings.TrimSpace(input.BusinessDescription),
		BusinessState:       strings.TrimSpace(input.BusinessState),
		BusinessLGA:         strings.TrimSpace(input.BusinessLGA),
		BusinessAddress:     strings.TrimSpace(input.BusinessAddress),
		RegistrationNumber:  input.RegistrationNumber,
		YearsInOperation:    input.YearsInOperation,
		NumberOfEmployees:   input.NumberOfEmployees,
		AnnualRevenueRange:  input.AnnualRevenueRange,
		WebsiteURL:          input.WebsiteURL,
		SocialMediaLinks:    input.SocialMediaLinks,
		BusinessGoals:       input.BusinessGoals,
		ExpectedImpact:      input.ExpectedImpact,
		EmploymentPlan:      input.EmploymentPlan,
		FundingRequirements: input.FundingRequirements,

		AdditionalCertifications: input.AdditionalCertifications,

		SubmittedAt: time.Now(),
	}

	if err := s.appRepo.CreateWithDocuments(app, docs); err != nil {
		logOrphanedUploads(uploaded)
		return nil, apperr.Storage("persist application", err)
	}

	s.publish(dto.EventApplicationSubmitted, dto.ApplicationSubmittedEvent{
		ApplicationID: app.ID,
		UserID:        userID,
		Email:         user.Email,
		BusinessName:  app.BusinessName,
		SubmittedAt:   app.SubmittedAt.Format(time.RFC3339),
	})

	return &dto.ApplicationSubmitResponse{
		ApplicationID: app.ID,
		Status:        string(app.Status),
		SubmittedAt:   app.SubmittedAt.Format(time.RFC3339),
	}, nil
}

/* =========================
   READS
========================= */

func (s *applicationService) GetApplication(actorID uint, appID uint) (*domain.EndorsementApplication, error) {
	if actorID == 0 {
		return nil, apperr.Unauthenticated("login required")
	}

	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("application not found")
		}
		return nil, apperr.Storage("load application", err)
	}

	ok, err := s.gate.CanView(actorID, app)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("not your application")
	}
	return app, nil
}

func (s *applicationService) ListOwn(userID uint) ([]dto.ApplicationSummary, error) {
	if userID == 0 {
		return nil, apperr.Unauthenticated("login required")
	}

	apps, err := s.appRepo.ListByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("list applications", err)
	}

	out := make([]dto.ApplicationSummary, 0, len(apps))
	for _, app := range apps {
		out = append(out, summarize(app))
	}
	return out, nil
}

func summarize(app domain.EndorsementApplication) dto.ApplicationSummary {
	sum := dto.ApplicationSummary{
		ID:           app.ID,
		BusinessName: app.BusinessName,
		Status:       string(app.Status),
		NNYPAScore:   app.NNYPAScore,
		SubmittedAt:  app.SubmittedAt.Format(time.RFC3339),
	}
	if !app.Status.Known() {
		sum.Status = string(domain.ApplicationStatusPending)
	}
	if app.ReviewedAt != nil {
		r := app.ReviewedAt.Format(time.RFC3339)
		sum.ReviewedAt = &r
	}
	return sum
}

/* =========================
   REVIEW (ADMIN)
========================= */

func (s *applicationService) Review(appID uint, actorID uint, input dto.ReviewRequest) error {
	if err := s.gate.RequireAdmin(actorID); err != nil {
		return err
	}

	decision := domain.ReviewDecision(strings.TrimSpace(strings.ToLower(input.Decision)))
	if decision != domain.ReviewDecisionApproved && decision != domain.ReviewDecisionRejected {
		return apperr.Validationf("decision must be approved or rejected, got %q", input.Decision)
	}
	if input.Score != nil && (*input.Score < 0 || *input.Score > 100) {
		return apperr.Validationf("score must be between 0 and 100, got %d", *input.Score)
	}

	err := s.appRepo.Review(appID, actorID, decision, input.Score, input.Notes, input.Analysis)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("application not found")
	case errors.Is(err, repository.ErrAlreadyReviewed):
		return apperr.Conflict("application already reviewed")
	default:
		return apperr.Storage("review application", err)
	}

	app, loadErr := s.appRepo.FindByID(appID)
	if loadErr != nil || app == nil {
		log.Printf("reviewed application %d but could not load it for the event: %v", appID, loadErr)
		return nil
	}

	event := dto.ApplicationReviewedEvent{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		BusinessName:  app.BusinessName,
		Decision:      string(decision),
		Score:         app.NNYPAScore,
	}
	if app.ReviewedAt != nil {
		event.ReviewedAt = app.ReviewedAt.Format(time.RFC3339)
	}
	if owner, err := s.userRepo.FindUserById(app.UserID); err == nil && owner != nil {
		event.Email = owner.Email
	}
	s.publish(dto.EventApplicationReviewed, event)

	return nil
}

/* =========================
   ADMIN READS
========================= */

func (s *applicationService) ListAll(actorID uint, limit, offset int) ([]domain.EndorsementApplication, error) {
	if err := s.gate.RequireAdmin(actorID); err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListAll(limit, offset)
	if err != nil {
		return nil, apperr.Storage("list applications", err)
	}
	return apps, nil
}

func (s *applicationService) Stats(actorID uint) (*dto.AdminStats, error) {
	if err := s.gate.RequireAdmin(actorID); err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListAll(-1, 0)
	if err != nil {
		return nil, apperr.Storage("load applications", err)
	}

	totalUsers, err := s.profileRepo.Count()
	if err != nil {
		return nil, apperr.Storage("count profiles", err)
	}

	stats := BuildAdminStats(apps, int(totalUsers))
	return &stats, nil
}

func (s *applicationService) DocumentURL(actorID uint, appID uint, docType string) (*dto.DocumentURLResponse, error) {
	if err := s.gate.RequireAdmin(actorID); err != nil {
		return nil, err
	}

	app, err := s.appRepo.FindByID(appID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("application not found")
		}
		return nil, apperr.Storage("load application", err)
	}

	want := domain.DocumentType(strings.TrimSpace(strings.ToLower(docType)))
	for _, doc := range app.Documents {
		if doc.DocType == want {
			return &dto.DocumentURLResponse{
				ApplicationID: app.ID,
				DocType:       string(doc.DocType),
				URL:           doc.FileURL,
			}, nil
		}
	}
	return nil, apperr.NotFound("document not found")
}

func (s *applicationService) publish(key string, payload any) {
	if s.producer == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s event: %v", key, err)
		return
	}
	if err := s.producer.PublishMessage([]byte(key), b); err != nil {
		log.Printf("publish %s event: %v", key, err)
	}
}

func logOrphanedUploads(urls []string) {
	for _, u := range urls {
		log.Printf("orphaned upload (submission failed): %s", u)
	}
}
