package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	Attendance AttendanceConfig
	Payroll    PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// AppConfig holds application configuration
type AppConfig struct {
	Port         int
	Env          string
	LogLevel     string
	SeedDefaults bool
}

// AttendanceConfig holds the worked-hours thresholds used to classify a day.
type AttendanceConfig struct {
	PresentThresholdHours float64
	HalfDayThresholdHours float64
}

// PayrollConfig holds statutory parameters and the monthly generation
// schedule. Rates are fractions, ceilings are monthly amounts.
type PayrollConfig struct {
	GenerationDay  int // day of month the prior period is generated
	AutoSubmit     bool
	PFRate         float64
	PFWageCeiling  float64
	ESIRate        float64
	ESIWageCeiling float64
	DefaultPTState string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hr-backend"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:         appPort,
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SeedDefaults: getEnv("SEED_DEFAULTS", "false") == "true",
	}

	presentThreshold, err := getEnvFloat("ATTENDANCE_PRESENT_HOURS", 8)
	if err != nil {
		return nil, err
	}
	halfDayThreshold, err := getEnvFloat("ATTENDANCE_HALF_DAY_HOURS", 4)
	if err != nil {
		return nil, err
	}

	config.Attendance = AttendanceConfig{
		PresentThresholdHours: presentThreshold,
		HalfDayThresholdHours: halfDayThreshold,
	}

	generationDay, err := strconv.Atoi(getEnv("PAYROLL_GENERATION_DAY", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_GENERATION_DAY: %w", err)
	}
	pfRate, err := getEnvFloat("PAYROLL_PF_RATE", 0.12)
	if err != nil {
		return nil, err
	}
	pfCeiling, err := getEnvFloat("PAYROLL_PF_WAGE_CEILING", 15000)
	if err != nil {
		return nil, err
	}
	esiRate, err := getEnvFloat("PAYROLL_ESI_RATE", 0.0075)
	if err != nil {
		return nil, err
	}
	esiCeiling, err := getEnvFloat("PAYROLL_ESI_WAGE_CEILING", 21000)
	if err != nil {
		return nil, err
	}

	config.Payroll = PayrollConfig{
		GenerationDay:  generationDay,
		AutoSubmit:     getEnv("PAYROLL_AUTO_SUBMIT", "false") == "true",
		PFRate:         pfRate,
		PFWageCeiling:  pfCeiling,
		ESIRate:        esiRate,
		ESIWageCeiling: esiCeiling,
		DefaultPTState: getEnv("PAYROLL_DEFAULT_PT_STATE", "Maharashtra"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Attendance.HalfDayThresholdHours <= 0 {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must be positive")
	}
	if c.Attendance.PresentThresholdHours < c.Attendance.HalfDayThresholdHours {
		return fmt.Errorf("ATTENDANCE_PRESENT_HOURS must not be below ATTENDANCE_HALF_DAY_HOURS")
	}
	if c.Payroll.GenerationDay < 1 || c.Payroll.GenerationDay > 28 {
		return fmt.Errorf("PAYROLL_GENERATION_DAY must be between 1 and 28")
	}
	if c.Payroll.PFRate < 0 || c.Payroll.PFRate >= 1 {
		return fmt.Errorf("PAYROLL_PF_RATE must be a fraction between 0 and 1")
	}
	if c.Payroll.ESIRate < 0 || c.Payroll.ESIRate >= 1 {
		return fmt.Errorf("PAYROLL_ESI_RATE must be a fraction between 0 and 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
