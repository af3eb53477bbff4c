package notifier

import (
	"encoding/json"
	"log"

	"github.com/nnypa/endorsement_service/internal/dto"
	"github.com/nnypa/endorsement_service/pkg/mail"
)

// Handler turns broker events into applicant email. Unknown keys are
// logged and skipped so unrelated topics never wedge the consumer group.
type Handler struct {
	mailer *mail.Mailer
}

func NewHandler(mailer *mail.Mailer) *Handler {
	return &Handler{mailer: mailer}
}

func (h *Handler) HandleMessage(key, value string) error {
	switch key {
	case dto.EventVerifyEmail:
		var event dto.VerifyEmailEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s", key, value)
			return err
		}
		return h.mailer.SendVerifyEmail(event.Email, event.Token)

	case dto.EventResetPassword:
		var event dto.ResetPasswordEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s", key, value)
			return err
		}
		return h.mailer.SendResetPassword(event.Email, event.Token)

	case dto.EventApplicationSubmitted:
		var event dto.ApplicationSubmittedEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s", key, value)
			return err
		}
		if event.Email == "" {
			return nil
		}
		return h.mailer.SendSubmissionReceipt(event.Email, event.BusinessName, event.ApplicationID)

	case dto.EventApplicationReviewed:
		var event dto.ApplicationReviewedEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s", key, value)
			return err
		}
		if event.Email == "" {
			return nil
		}
		return h.mailer.SendDecision(event.Email, event.BusinessName, event.Decision, event.Score)

	default:
		log.Printf("skip event with key %q", key)
		return nil
	}
}
