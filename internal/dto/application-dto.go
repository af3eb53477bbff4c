package dto

// FileInput carries one uploaded document through the submit flow.
type FileInput struct {
	Filename string
	DocType  string
	MimeType string
	Bytes    []byte
}

type ApplicationSubmit struct {
	ApplicationType string `json:"application_type"`

	BusinessName        string  `json:"business_name" validate:"required"`
	BusinessType        string  `json:"business_type" validate:"required"`
	BusinessSector      string  `json:"business_sector" validate:"required"`
	BusinessDescription string  `json:"business_description" validate:"required"`
	BusinessState       string  `json:"business_state" validate:"required"`
	BusinessLGA         string  `json:"business_lga" validate:"required"`
	BusinessAddress     string  `json:"business_address" validate:"required"`
	RegistrationNumber  *string `json:"registration_number,omitempty"`
	YearsInOperation    *int    `json:"years_in_operation,omitempty"`
	NumberOfEmployees   *string `json:"number_of_employees,omitempty"`
	AnnualRevenueRange  *string `json:"annual_revenue_range,omitempty"`
	WebsiteURL          *string `json:"website_url,omitempty"`
	SocialMediaLinks    *string `json:"social_media_links,omitempty"`
	BusinessGoals       *string `json:"business_goals,omitempty"`
	ExpectedImpact      *string `json:"expected_impact,omitempty"`
	EmploymentPlan      *string `json:"employment_plan,omitempty"`
	FundingRequirements *string `json:"funding_requirements,omitempty"`

	AdditionalCertifications *string `json:"additional_certifications,omitempty"`

	Files []FileInput `json:"-"`
}

type ApplicationSubmitResponse struct {
	ApplicationID uint   `json:"application_id"`
	Status        string `json:"status"`
	SubmittedAt   string `json:"submitted_at"`
}

type ApplicationSummary struct {
	ID           uint    `json:"id"`
	BusinessName string  `json:"business_name"`
	Status       string  `json:"application_status"`
	NNYPAScore   *int    `json:"nnypa_score,omitempty"`
	SubmittedAt  string  `json:"submitted_at"`
	ReviewedAt   *string `json:"reviewed_at,omitempty"`
}

type ApplicationDocumentResponse struct {
	ID      uint   `json:"id"`
	DocType string `json:"doc_type"`
	FileURL string `json:"file_url"`
}

type ReviewRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Score    *int    `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Notes    *string `json:"notes,omitempty"`
	Analysis *string `json:"analysis,omitempty"`
}
