package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        string
		ServiceName string
		HealthName  string
		CORSOrigins []string
	}
	Mail struct {
		Provider      string // "resend", "smtp" or "" for auto-detect
		To            string
		From          string
		ResendAPIKey  string
		ResendBaseURL string
		SMTPHost      string
		SMTPPort      string
		SMTPSSLPort   string
		SMTPUser      string
		SMTPPassword  string
		Simulate      bool
	}
	Chat struct {
		MaxQuestions   int
		SessionTTL     time.Duration
		MaxUploadBytes int64
		DocCharLimit   int
		Model          string
		RequestTimeout time.Duration
		GeminiAPIKey   string
	}
	Notifier struct {
		Cooldown time.Duration
		Workers  int
	}
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	var config Config

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.service_name", "Roy Boker Portfolio API")
	viper.SetDefault("server.health_name", "Portfolio Backend")
	viper.SetDefault("server.cors_origins", []string{
		"https://royboker.github.io",
		"http://localhost:5173",
		"http://localhost:8001",
		"http://localhost:8005",
	})
	viper.SetDefault("mail.to", "royboker15@gmail.com")
	viper.SetDefault("mail.from", "onboarding@resend.dev")
	viper.SetDefault("mail.resend_base_url", "https://api.resend.com")
	viper.SetDefault("mail.smtp_host", "smtp.gmail.com")
	viper.SetDefault("mail.smtp_port", "587")
	viper.SetDefault("mail.smtp_ssl_port", "465")
	viper.SetDefault("mail.simulate", false)
	viper.SetDefault("chat.max_questions", 10)
	viper.SetDefault("chat.session_ttl", "24h")
	viper.SetDefault("chat.max_upload_bytes", 10*1024*1024)
	viper.SetDefault("chat.doc_char_limit", 12000)
	viper.SetDefault("chat.model", "gemini-2.0-flash")
	viper.SetDefault("chat.request_timeout", "60s")
	viper.SetDefault("notifier.cooldown", "5m")
	viper.SetDefault("notifier.workers", 2)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	config.Server.Port = viper.GetString("server.port")
	config.Server.ServiceName = viper.GetString("server.service_name")
	config.Server.HealthName = viper.GetString("server.health_name")
	config.Server.CORSOrigins = viper.GetStringSlice("server.cors_origins")
	config.Mail.Provider = viper.GetString("mail.provider")
	config.Mail.To = viper.GetString("mail.to")
	config.Mail.From = viper.GetString("mail.from")
	config.Mail.ResendBaseURL = viper.GetString("mail.resend_base_url")
	config.Mail.SMTPHost = viper.GetString("mail.smtp_host")
	config.Mail.SMTPPort = viper.GetString("mail.smtp_port")
	config.Mail.SMTPSSLPort = viper.GetString("mail.smtp_ssl_port")
	config.Mail.Simulate = viper.GetBool("mail.simulate")
	config.Chat.MaxQuestions = viper.GetInt("chat.max_questions")
	config.Chat.SessionTTL = viper.GetDuration("chat.session_ttl")
	config.Chat.MaxUploadBytes = viper.GetInt64("chat.max_upload_bytes")
	config.Chat.DocCharLimit = viper.GetInt("chat.doc_char_limit")
	config.Chat.Model = viper.GetString("chat.model")
	config.Chat.RequestTimeout = viper.GetDuration("chat.request_timeout")
	config.Notifier.Cooldown = viper.GetDuration("notifier.cooldown")
	config.Notifier.Workers = viper.GetInt("notifier.workers")

	// Secrets come from the environment only, never the config file
	config.Mail.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	config.Mail.SMTPUser = os.Getenv("SMTP_USER")
	config.Mail.SMTPPassword = os.Getenv("SMTP_PASS")
	config.Chat.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	return &config, nil
}

// MailConfigured reports whether any delivery strategy has credentials.
// A missing credential degrades /contact, it never stops the server.
func (c *Config) MailConfigured() bool {
	if c.Mail.ResendAPIKey != "" {
		return true
	}
	return c.Mail.SMTPHost != "" && c.Mail.SMTPUser != "" && c.Mail.SMTPPassword != ""
}

func (c *Config) ValidateMail() error {
	if !c.MailConfigured() {
		return fmt.Errorf("RESEND_API_KEY or SMTP_USER/SMTP_PASS is required")
	}
	return nil
}

func (c *Config) ValidateGemini() error {
	if c.Chat.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}
