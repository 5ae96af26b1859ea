// Package mail delivers invoice PDFs to patients over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	appsales "github.com/leaftolife/backend/internal/application/sales"
	"github.com/leaftolife/backend/internal/infrastructure/config"
)

// SMTPInvoiceMailer sends invoice emails through an SMTP relay
type SMTPInvoiceMailer struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
	clinicName  string
	logger      *zap.Logger
}

// NewSMTPInvoiceMailer creates a mailer from SMTP configuration. The
// clinic name appears in the subject line and message body.
func NewSMTPInvoiceMailer(cfg config.MailConfig, clinicName string, logger *zap.Logger) (*SMTPInvoiceMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is required")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("mail from address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}

	return &SMTPInvoiceMailer{
		dialer:      gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		clinicName:  clinicName,
		logger:      logger,
	}, nil
}

// SendInvoice emails the invoice PDF as an attachment
func (m *SMTPInvoiceMailer) SendInvoice(ctx context.Context, to, invoiceNumber string, pdf []byte, filename string) error {
	if to == "" {
		return errors.New("recipient address is required")
	}

	msg := m.buildMessage(to, invoiceNumber, pdf, filename)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send invoice email: %w", err)
		}
	}

	m.logger.Info("invoice email sent",
		zap.String("invoice_number", invoiceNumber),
		zap.String("to", to))
	return nil
}

func (m *SMTPInvoiceMailer) buildMessage(to, invoiceNumber string, pdf []byte, filename string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromAddress, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("%s - Invoice %s", m.clinicName, invoiceNumber))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Dear patient,\n\nPlease find attached your invoice %s from %s.\n\nThank you for your visit.\n",
		invoiceNumber, m.clinicName))
	msg.Attach(filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
		gomail.SetHeader(map[string][]string{
			"Content-Type": {"application/pdf"},
		}),
	)
	return msg
}

// DisabledMailer is used when mail delivery is switched off. Sends succeed
// without doing anything so the invoice pipeline stays intact in
// environments without an SMTP relay.
type DisabledMailer struct {
	logger *zap.Logger
}

// NewDisabledMailer creates a DisabledMailer
func NewDisabledMailer(logger *zap.Logger) *DisabledMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisabledMailer{logger: logger}
}

// SendInvoice logs the skipped delivery and returns nil
func (m *DisabledMailer) SendInvoice(ctx context.Context, to, invoiceNumber string, pdf []byte, filename string) error {
	m.logger.Info("mail delivery disabled, invoice not sent",
		zap.String("invoice_number", invoiceNumber),
		zap.String("to", to))
	return nil
}

// NewInvoiceMailer builds the mailer selected by configuration
func NewInvoiceMailer(cfg config.MailConfig, clinicName string, logger *zap.Logger) (appsales.InvoiceMailer, error) {
	if !cfg.Enabled {
		return NewDisabledMailer(logger), nil
	}
	return NewSMTPInvoiceMailer(cfg, clinicName, logger)
}

var _ appsales.InvoiceMailer = (*SMTPInvoiceMailer)(nil)
var _ appsales.InvoiceMailer = (*DisabledMailer)(nil)
