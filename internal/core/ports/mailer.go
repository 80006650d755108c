package ports

import "context"

// Mailer delivers verification codes to a user's email address. The account
// security service only depends on its success/failure signal; transport,
// templating, and retries belong to the implementation.
type Mailer interface {
	SendVerificationCode(ctx context.Context, toEmail, username, code string) error
	SendPasswordResetCode(ctx context.Context, toEmail, username, code string) error
}
