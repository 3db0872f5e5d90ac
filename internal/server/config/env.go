package config

import "os"

// parseEnv overlays Config fields from environment variables. Unset
// variables leave the current value untouched.
func parseEnv(config *Config) {
	overlay := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	overlay(&config.Addr, "SERVER_ADDRESS")
	overlay(&config.DatabaseDSN, "DATABASE_DSN")
	overlay(&config.JWTSecret, "JWT_SECRET")

	overlay(&config.EncryptionKey, "ENCRYPTION_KEY")
	overlay(&config.EncryptionPassphrase, "ENCRYPTION_PASSPHRASE")
	overlay(&config.EncryptionSalt, "ENCRYPTION_SALT")

	overlay(&config.S3AccessKey, "S3_ACCESS_KEY")
	overlay(&config.S3SecretKey, "S3_SECRET_KEY")
	overlay(&config.S3Region, "S3_REGION")
	overlay(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	overlay(&config.S3Bucket, "S3_BUCKET")
	overlay(&config.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")

	overlay(&config.IdentityBaseURL, "IDENTITY_BASE_URL")
	overlay(&config.IdentityServiceKey, "IDENTITY_SERVICE_KEY")

	overlay(&config.PayPalBaseURL, "PAYPAL_BASE_URL")
	overlay(&config.PayPalClientID, "PAYPAL_CLIENT_ID")
	overlay(&config.PayPalClientSecret, "PAYPAL_CLIENT_SECRET")
	overlay(&config.FrontendURL, "FRONTEND_URL")
}
