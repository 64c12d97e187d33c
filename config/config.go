package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	TemplateDir         string
	DefaultTemplate     string
	DefaultCourseCode   string
	DefaultEntityFolder string
	ExportDir           string
	CleanupGrace        time.Duration
	SessionLocking      bool

	RenewalCron       string
	RenewalNoticeDays int

	MailProvider   string // smtp or sendgrid
	SMTPHost       string
	SMTPPort       string
	EmailSender    string
	Password       string // SMTP Password
	SendGridAPIKey string

	AdminUsername string
	AdminPassword string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "worksafe"),
		DBPort:     getEnv("DB_PORT", "5432"),

		TemplateDir:         getEnv("TEMPLATE_DIR", "templates"),
		DefaultTemplate:     getEnv("DEFAULT_TEMPLATE", "modello.docx"),
		DefaultCourseCode:   getEnv("DEFAULT_COURSE_CODE", "GEN"),
		DefaultEntityFolder: getEnv("DEFAULT_ENTITY_FOLDER", "Privati"),
		ExportDir:           getEnv("EXPORT_DIR", os.TempDir()),
		CleanupGrace:        getEnvDuration("CLEANUP_GRACE", 10*time.Second),
		SessionLocking:      getEnvBool("SESSION_LOCKING", false),

		RenewalCron:       getEnv("RENEWAL_CRON", "0 9 * * *"),
		RenewalNoticeDays: getEnvInt("RENEWAL_NOTICE_DAYS", 30),

		MailProvider:   strings.ToLower(getEnv("MAIL_PROVIDER", "smtp")),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		EmailSender:    getEnv("EMAIL_SENDER", ""),
		Password:       getEnv("PASSWORD", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.MailProvider == "sendgrid" && AppConfig.SendGridAPIKey == "" {
		log.Println("Warning: MAIL_PROVIDER is sendgrid but SENDGRID_API_KEY is empty. Renewal notices will fail.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

// getEnvDuration accepts Go duration strings ("10s", "2m") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
