package config

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

// MailConfigured reports whether outbound email can be sent.
func (c *AppConfig) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}
