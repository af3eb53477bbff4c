package dto

// Event keys published to the broker.
const (
	EventVerifyEmail          = "user.verify_email"
	EventResetPassword        = "user.reset_password"
	EventApplicationSubmitted = "application.submitted"
	EventApplicationReviewed  = "application.reviewed"
)

type VerifyEmailEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type ResetPasswordEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type ApplicationSubmittedEvent struct {
	ApplicationID uint   `json:"application_id"`
	UserID        uint   `json:"user_id"`
	Email         string `json:"email"`
	BusinessName  string `json:"business_name"`
	SubmittedAt   string `json:"submitted_at"`
}

type ApplicationReviewedEvent struct {
	ApplicationID uint   `json:"application_id"`
	UserID        uint   `json:"user_id"`
	Email         string `json:"email"`
	BusinessName  string `json:"business_name"`
	Decision      string `json:"decision"`
	Score         *int   `json:"score,omitempty"`
	ReviewedAt    string `json:"reviewed_at"`
}
