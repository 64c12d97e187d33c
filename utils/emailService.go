package utils

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"

	"worksafe/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers one HTML message
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// NewMailer picks the provider named by MAIL_PROVIDER
func NewMailer(cfg *config.Config) Mailer {
	if cfg.MailProvider == "sendgrid" {
		return &SendGridMailer{APIKey: cfg.SendGridAPIKey, Sender: cfg.EmailSender}
	}
	return &SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, Sender: cfg.EmailSender, Password: cfg.Password}
}

// SMTPMailer sends through an authenticated SMTP relay
type SMTPMailer struct {
	Host     string
	Port     string
	Sender   string
	Password string
}

func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: WorkSafe <%s>\r\n", m.Sender)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", m.Sender, m.Password, m.Host)

	log.Printf("[MAIL] Sending %q to %v via SMTP", subject, to)
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.Sender, to, []byte(msg)); err != nil {
		log.Printf("[MAIL] Error sending email: %v", err)
		return err
	}
	return nil
}

// SendGridMailer sends through the SendGrid v3 API
type SendGridMailer struct {
	APIKey string
	Sender string
}

func (m *SendGridMailer) Send(to []string, subject, htmlBody string) error {
	if m.APIKey == "" {
		return fmt.Errorf("sendgrid: api key not configured")
	}
	client := sendgrid.NewSendClient(m.APIKey)
	from := mail.NewEmail("WorkSafe", m.Sender)

	for _, addr := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", addr), "", htmlBody)
		log.Printf("[MAIL] Sending %q to %s via SendGrid", subject, addr)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("[MAIL] Error sending email: %v", err)
			return err
		}
		if resp.StatusCode >= 300 {
			return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
		}
	}
	return nil
}

// HTML wrapper shared by every notification
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F4E79; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F1F1F; line-height: 1.6; }
			.info-box { background: #FFF4E5; padding: 15px; border-radius: 4px; border-left: 4px solid #E8A33D; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>WORKSAFE</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				Messaggio automatico, non rispondere a questa email.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// RenewalNoticeEmail builds the subject and body of a certificate expiry reminder
func RenewalNoticeEmail(name, courseName, expiresOn string) (string, string) {
	subject := "Scadenza attestato: " + courseName
	body := fmt.Sprintf(`
		<p>Gentile %s,</p>
		<p>l'attestato del corso <strong>%s</strong> scade il <strong>%s</strong>.</p>
		<div class="info-box">
			Contatta la segreteria per programmare il corso di aggiornamento.
		</div>
	`, html.EscapeString(name), html.EscapeString(courseName), html.EscapeString(expiresOn))
	return subject, getEmailTemplate("Attestato in scadenza", body)
}
