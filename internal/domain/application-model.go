package domain

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	// Recognized when rendering stored rows; no transition currently
	// produces it.
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
)

// Known reports whether a stored status value is one this service
// understands.
func (s ApplicationStatus) Known() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusUnderReview:
		return true
	}
	return false
}

// Terminal reports whether the status accepts no further review decision.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

type ApplicationType string

const (
	ApplicationTypeBusinessEndorsement ApplicationType = "business_endorsement"
	ApplicationTypePolicyAlignment     ApplicationType = "policy_alignment"
)

type ReviewDecision string

const (
	ReviewDecisionApproved ReviewDecision = "approved"
	ReviewDecisionRejected ReviewDecision = "rejected"
)

type DocumentType string

const (
	DocumentTypeCAC                 DocumentType = "cac_document"
	DocumentTypeBusinessPlan        DocumentType = "business_plan"
	DocumentTypeFinancialStatements DocumentType = "financial_statements"
	DocumentTypeApplicantID         DocumentType = "id_document"
	DocumentTypeOther               DocumentType = "other"
)

func (d DocumentType) Known() bool {
	switch d {
	case DocumentTypeCAC, DocumentTypeBusinessPlan,
		DocumentTypeFinancialStatements, DocumentTypeApplicantID,
		DocumentTypeOther:
		return true
	}
	return false
}

type EndorsementApplication struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	ApplicationType ApplicationType   `gorm:"type:varchar(30);not null;default:'business_endorsement'" json:"application_type"`
	Status          ApplicationStatus `gorm:"column:application_status;type:varchar(20);not null;default:'pending'" json:"application_status"`

	// --- Intake fields ---
	BusinessName        string  `gorm:"not null" json:"business_name"`
	BusinessType        string  `gorm:"not null" json:"business_type"`
	BusinessSector      string  `gorm:"not null" json:"business_sector"`
	BusinessDescription string  `gorm:"type:text;not null" json:"business_description"`
	BusinessState       string  `gorm:"not null" json:"business_state"`
	BusinessLGA         string  `gorm:"column:business_lga;not null" json:"business_lga"`
	BusinessAddress     string  `gorm:"type:text;not null" json:"business_address"`
	RegistrationNumber  *string `json:"registration_number,omitempty"`
	YearsInOperation    *int    `json:"years_in_operation,omitempty"`
	NumberOfEmployees   *string `json:"number_of_employees,omitempty"`
	AnnualRevenueRange  *string `json:"annual_revenue_range,omitempty"`
	WebsiteURL          *string `json:"website_url,omitempty"`
	SocialMediaLinks    *string `gorm:"type:jsonb" json:"social_media_links,omitempty"`
	BusinessGoals       *string `gorm:"type:text" json:"business_goals,omitempty"`
	ExpectedImpact      *string `gorm:"type:text" json:"expected_impact,omitempty"`
	EmploymentPlan      *string `gorm:"type:text" json:"employment_plan,omitempty"`
	FundingRequirements *string `gorm:"type:text" json:"funding_requirements,omitempty"`

	AdditionalCertifications *string `gorm:"type:jsonb" json:"additional_certifications,omitempty"`

	// --- Review outcome ---
	NNYPAScore    *int    `gorm:"column:nnypa_score" json:"nnypa_score,omitempty"`
	NNYPAAnalysis *string `gorm:"column:nnypa_analysis;type:text" json:"nnypa_analysis,omitempty"`
	AdminNotes    *string `gorm:"type:text" json:"admin_notes,omitempty"`
	ReviewedBy    *uint   `json:"reviewed_by,omitempty"`

	// --- Relations ---
	Documents []ApplicationDocument `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:ApplicationID" json:"documents,omitempty"`

	// --- Timestamps ---
	SubmittedAt time.Time  `gorm:"not null" json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	gorm.Model
}

type ApplicationDocument struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ApplicationID uint         `gorm:"not null;index" json:"application_id"`
	DocType       DocumentType `gorm:"type:varchar(30);not null" json:"doc_type"`
	FileURL       string       `gorm:"type:text;not null" json:"file_url"`

	MimeType *string `gorm:"type:varchar(100)" json:"mime_type,omitempty"`
	FileSize *int64  `json:"file_size,omitempty"`

	gorm.Model
}
