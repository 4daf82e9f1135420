package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Notifier is the fire-and-forget notification collaborator. Callers log
// failures and never roll back the transition that triggered the message.
type Notifier interface {
	SendDocumentReviewed(toEmail, toName, documentType, decision string) error
	SendContractIssued(toEmail, toName string, semester, year int) error
	SendRequestReviewed(toEmail, toName, requestType, decision string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SMTPNotifier implements Notifier over plain SMTP.
type SMTPNotifier struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPNotifier creates a new SMTPNotifier.
func NewSMTPNotifier(config SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{config: config, logger: logger}
}

// SendDocumentReviewed notifies an owner that a document was reviewed.
func (s *SMTPNotifier) SendDocumentReviewed(toEmail, toName, documentType, decision string) error {
	subject := fmt.Sprintf("Documento %s: %s", documentType, decision)
	body := fmt.Sprintf("Olá %s,\n\nSeu documento %q foi analisado. Resultado: %s.\n", toName, documentType, decision)
	return s.send(toEmail, subject, body)
}

// SendContractIssued notifies an owner that a contract awaits signature.
func (s *SMTPNotifier) SendContractIssued(toEmail, toName string, semester, year int) error {
	subject := fmt.Sprintf("Contrato %d/%d disponível", semester, year)
	body := fmt.Sprintf("Olá %s,\n\nSeu contrato para %d/%d está disponível e aguarda assinatura.\n", toName, semester, year)
	return s.send(toEmail, subject, body)
}

// SendRequestReviewed notifies a student that a request was reviewed.
func (s *SMTPNotifier) SendRequestReviewed(toEmail, toName, requestType, decision string) error {
	subject := fmt.Sprintf("Requerimento %s: %s", requestType, decision)
	body := fmt.Sprintf("Olá %s,\n\nSeu requerimento %q foi analisado. Resultado: %s.\n", toName, requestType, decision)
	return s.send(toEmail, subject, body)
}

func (s *SMTPNotifier) send(toEmail, subject, body string) error {
	// Without credentials, log the message instead of sending. Keeps
	// development environments working without an SMTP server.
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - notification logged, not sent")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.config.FromName, s.config.FromEmail, toEmail, subject, body)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, []byte(msg)); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send notification email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
