package main

import (
	"log"

	"github.com/nnypa/endorsement_service/config"
	"github.com/nnypa/endorsement_service/infra/queue"
	"github.com/nnypa/endorsement_service/internal/notifier"
	"github.com/nnypa/endorsement_service/pkg/mail"
)

func main() {
	// ---------- Load Config ----------
	cfg := config.LoadConfig()

	log.Println("Notifier starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s\n",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	// ---------- Init Mailer ----------
	mailer := mail.NewMailer(
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailFromName,
		cfg.PortalURL,
	)

	// ---------- Init Handler ----------
	handler := notifier.NewHandler(mailer)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	// ---------- Start Listening ----------
	log.Println("Notifier listening for events...")
	consumer.Listen()
}
