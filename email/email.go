package email

import (
	"fmt"
	"github.com/jordan-wright/email"
	"net/smtp"
)

type Sender interface {
	SendEmail(subject, content string, to, cc, bcc, attachFiles []string) error
}

type EmailSender struct {
	name              string
	fromEmailAddress  string
	fromEmailPassword string
	smtpAuthAddress   string
	smtpServerAddress string
}

func NewEmailSender(name, fromEmailAddress, fromEmailPassword, smtpAuthAddress, smtpServerAddress string) *EmailSender {
	return &EmailSender{
		name:              name,
		fromEmailAddress:  fromEmailAddress,
		fromEmailPassword: fromEmailPassword,
		smtpAuthAddress:   smtpAuthAddress,
		smtpServerAddress: smtpServerAddress,
	}
}

// NewEmail builds the message SendEmail would send.
func (sender *EmailSender) NewEmail(subject, content string, to, cc, bcc, attachFiles []string) (*email.Email, error) {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", sender.name, sender.fromEmailAddress)
	e.To = to
	e.Bcc = bcc
	e.Cc = cc
	e.Subject = subject
	e.HTML = []byte(content)

	for _, file := range attachFiles {
		if _, err := e.AttachFile(file); err != nil {
			return nil, fmt.Errorf("failed to attach file %s: %w", file, err)
		}
	}

	return e, nil
}

func (sender *EmailSender) SendEmail(subject, content string, to, cc, bcc, attachFiles []string) error {
	e, err := sender.NewEmail(subject, content, to, cc, bcc, attachFiles)
	if err != nil {
		return err
	}

	smtpAuth := smtp.PlainAuth("", sender.fromEmailAddress, sender.fromEmailPassword, sender.smtpAuthAddress)
	return e.Send(sender.smtpServerAddress, smtpAuth)
}
