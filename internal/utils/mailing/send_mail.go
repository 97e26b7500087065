package mailing

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"

	"foodgram/internal/utils"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", emailConfig.SMTPEmail)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

// SendPasswordResetMail delivers the reset link for the short-lived token
// minted by the user service.
func SendPasswordResetMail(toEmail string, token string) error {
	cfg := LoadMailConfig()
	link := fmt.Sprintf("%s/reset-password?token=%s", cfg.AppURL, token)
	body := fmt.Sprintf(
		"<p>Somebody requested a password reset for your Foodgram account.</p>"+
			"<p><a href=%q>Reset your password</a></p>"+
			"<p>If this was not you, ignore this message.</p>",
		link,
	)
	return SendMail(toEmail, "Foodgram password reset", body)
}
