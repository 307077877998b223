package libs

import (
	"errors"
	"fmt"

	"rental-admin/config"

	"gopkg.in/gomail.v2"
)

var ErrSMTPNotConfigured = errors.New("SMTP configuration missing")

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(cfg *config.Config) (*EmailService, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, ErrSMTPNotConfigured
	}

	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	return &EmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass),
		from:   from,
	}, nil
}

func (s *EmailService) SendOTPEmail(toEmail, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Password Reset Code - Rental Admin")
	m.SetBody("text/html", otpEmailBody(otp))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func otpEmailBody(otp string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .otp-box { background-color: #eef4ff; border: 2px dashed #1677ff; padding: 20px; text-align: center; margin: 30px 0; border-radius: 8px; }
        .otp-code { font-size: 36px; font-weight: bold; color: #1677ff; letter-spacing: 8px; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <h2 style="color: #333;">Password Reset Request</h2>
        <p>Use the following code to set a new password for your admin account:</p>
        <div class="otp-box">
            <div class="otp-code">%s</div>
        </div>
        <p><strong>This code will expire in 5 minutes.</strong></p>
        <p>If you did not request a password reset, you can ignore this email.</p>
        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, otp)
}
