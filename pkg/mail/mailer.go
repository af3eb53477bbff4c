package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"
)

const smtpHost = "smtp.gmail.com"
const smtpAddr = smtpHost + ":587"

var verifyTmpl = template.Must(template.New("verify").Parse(`
<p>Welcome to the National Youth Policy Endorsement Portal.</p>
<p>Please confirm your email address by following this link:</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>The link expires in 24 hours.</p>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<p>A password reset was requested for your account.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>The link expires in 30 minutes. If you did not request this, ignore this email.</p>
`))

var receiptTmpl = template.Must(template.New("receipt").Parse(`
<p>Your endorsement application for <b>{{.BusinessName}}</b> has been received.</p>
<p>Reference number: {{.ApplicationID}}. Its status is <b>pending</b> until a reviewer has assessed it.</p>
`))

var decisionTmpl = template.Must(template.New("decision").Parse(`
<p>Your endorsement application for <b>{{.BusinessName}}</b> has been reviewed.</p>
<p>Decision: <b>{{.Decision}}</b>{{if .Score}} &mdash; alignment score {{.Score}}/100{{end}}.</p>
<p>Sign in to the portal to see the full outcome.</p>
`))

type Mailer struct {
	smtpUser     string
	smtpAppPass  string
	mailFrom     string
	mailFromName string
	portalURL    string
}

func NewMailer(smtpUser, smtpAppPass, mailFrom, mailFromName, portalURL string) *Mailer {
	return &Mailer{
		smtpUser:     smtpUser,
		smtpAppPass:  smtpAppPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		portalURL:    portalURL,
	}
}

func (m *Mailer) SendVerifyEmail(to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.portalURL, url.QueryEscape(token))
	return m.send(to, "Verify your email", verifyTmpl, map[string]any{
		"Link": link,
	})
}

func (m *Mailer) SendResetPassword(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.portalURL, url.QueryEscape(token))
	return m.send(to, "Reset your password", resetTmpl, map[string]any{
		"Link": link,
	})
}

func (m *Mailer) SendSubmissionReceipt(to, businessName string, applicationID uint) error {
	return m.send(to, "Application received", receiptTmpl, map[string]any{
		"BusinessName":  businessName,
		"ApplicationID": applicationID,
	})
}

func (m *Mailer) SendDecision(to, businessName, decision string, score *int) error {
	data := map[string]any{
		"BusinessName": businessName,
		"Decision":     decision,
	}
	if score != nil {
		data["Score"] = *score
	}
	return m.send(to, "Application decision", decisionTmpl, data)
}

func (m *Mailer) send(to, subject string, tmpl *template.Template, data map[string]any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", m.mailFromName, m.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		buf.String(),
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s", to, smtpAddr)

	if err := m.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (m *Mailer) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// one deadline for the whole exchange
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", m.smtpUser, m.smtpAppPass, smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(m.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
