package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/forka/forum-backend/pkg/logger"
)

// Config captures the SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers verification and reset codes over SMTP. Each message
// carries an HTML body with a plain text alternative.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, toEmail, username, code string) error {
	return m.send(ctx, toEmail, "ForKa - Email Verification Code", codeEmail{
		Title:    "ForKa Email Verification",
		Username: username,
		Code:     code,
		Expiry:   "10 minutes",
		Intro:    "Your verification code is:",
	})
}

func (m *SMTPMailer) SendPasswordResetCode(ctx context.Context, toEmail, username, code string) error {
	return m.send(ctx, toEmail, "ForKa - Password Reset Request", codeEmail{
		Title:    "Password Reset Request",
		Username: username,
		Code:     code,
		Expiry:   "15 minutes",
		Intro:    "We received a request to reset your password. Your reset code is:",
	})
}

func (m *SMTPMailer) send(ctx context.Context, toEmail, subject string, data codeEmail) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, data.plainBody())

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	msg.AddAlternativeString(mail.TypeTextHTML, html.String())

	log := logger.Get()
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Error().Err(err).Str("to", toEmail).Msg("email delivery failed")
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Str("to", toEmail).Str("subject", subject).Msg("email sent")
	return nil
}

type codeEmail struct {
	Title    string
	Username string
	Code     string
	Expiry   string
	Intro    string
}

func (e codeEmail) plainBody() string {
	return fmt.Sprintf(`%s

Hello %s,

%s %s

This code will expire in %s.

If you didn't request this code, please ignore this email.

Security Notice: Never share this code with anyone. ForKa staff will never ask for your code.

ForKa - Politeknik Negeri Batam
`, e.Title, e.Username, e.Intro, e.Code, e.Expiry)
}

var htmlTemplate = template.Must(template.New("code").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background-color: #0ea5e9; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0; }
.content { background-color: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
.code-box { background-color: white; border: 2px solid #0ea5e9; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; margin: 20px 0; border-radius: 10px; }
.warning { color: #dc2626; font-size: 14px; margin-top: 20px; }
.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #6b7280; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>{{.Title}}</h1></div>
  <div class="content">
    <p>Hello <strong>{{.Username}}</strong>,</p>
    <p>{{.Intro}}</p>
    <div class="code-box">{{.Code}}</div>
    <p>This code will expire in <strong>{{.Expiry}}</strong>.</p>
    <p>If you didn't request this code, please ignore this email.</p>
    <div class="warning"><strong>Security Notice:</strong> Never share this code with anyone. ForKa staff will never ask for your code.</div>
  </div>
  <div class="footer"><p>ForKa - Politeknik Negeri Batam</p></div>
</div>
</body>
</html>
`))
