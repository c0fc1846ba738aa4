// Package managers handles the sending of password-reset emails using the Mailgun service
// and the Hermes package for email formatting.
package managers

import (
	"context"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
type MailMgr interface {
	SendPasswordResetMail(email, username, token string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes  *hermes.Hermes
	Mailgun *mailgun.MailgunImpl
	BaseURL string
}

var from = "Blog Server <noreply@mail.blog-server.dev>"
var environment string

// SendPasswordResetMail sends a reset email carrying the link that embeds the given token.
// The email content is formatted using the Hermes package and sent using the Mailgun service.
func (mm *MailManager) SendPasswordResetMail(email, username, token string) error {
	if environment != "production" {
		log.Info("Skipping password reset mail in development mode")
		return nil
	}

	resetLink := mm.BaseURL + "/reset_password/" + token

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"You have received this email because a password reset was requested for your account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To reset your password, click the button below. The link expires in 30 minutes.",
					Button: hermes.Button{
						Text: "Reset your password",
						Link: resetLink,
					},
				},
			},
			Outros: []string{
				"If you did not make this request then simply ignore this email and no change will be made.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer func() {
		if err := ctx.Err(); err != nil {
			log.Debug("Context error: ", err)
		}
		cancel()
	}()

	message := mm.Mailgun.NewMessage(from, "Password Reset Request", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending password reset mail: " + err.Error())
		return err
	}
	log.Debug("Password reset mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// It also checks the runtime environment to determine if emails should be sent.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	mailgunInstance := mailgun.NewMailgun("mail.blog-server.dev", apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name: "Blog Server",
				Link: "https://blog-server.dev/",
			},
		},
		Mailgun: mailgunInstance,
		BaseURL: baseURL,
	}
	log.Info("Initialized mail manager")
	return mm
}
