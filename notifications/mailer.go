package notifications

import (
	"carniceria-backend/config"

	gomail "gopkg.in/gomail.v2"
)

func mailSender(cfg *config.Config) func(to string, subject string, body string) error {
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	from := cfg.SMTP.From
	return func(to string, subject string, body string) error {
		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/html", body)
		return dialer.DialAndSend(m)
	}
}
