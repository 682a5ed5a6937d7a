package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Base URL prepended to instance access links when composing signing
	// emails. Overridable per send call.
	SigningBaseURL string `envconfig:"SIGNING_BASE_URL" default:"http://localhost:8080"`

	// Instance expiration window applied when the caller does not supply one.
	DefaultExpirationDays int `envconfig:"DEFAULT_EXPIRATION_DAYS" default:"30"`

	// Mailer
	MailFromName    string `envconfig:"MAIL_FROM_NAME" default:"Inkwell"`
	MailFromAddress string `envconfig:"MAIL_FROM_ADDRESS" default:"no-reply@inkwell.local"`
	SendgridAPIKey  string `envconfig:"SENDGRID_API_KEY"`

	// S3 document file storage
	DocumentBucketName string `envconfig:"DOCUMENT_BUCKET_NAME" default:"inkwell-documents"`

	// Signer session cookie on the public /sign routes
	SignerCookieName string `envconfig:"SIGNER_COOKIE_NAME" default:"inkwell_signer"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
