package utils

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Email    EmailConfig
	Paystack PaystackConfig
	Bank     BankConfig
	Booking  BookingConfig
	Shipping ShippingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTLSecs  int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type JWTConfig struct {
	Secret string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type PaystackConfig struct {
	BaseURL       string
	SecretKey     string
	WebhookSecret string
	TimeoutSecs   int
}

// BankConfig holds the account details returned to bank-transfer customers.
type BankConfig struct {
	BankName      string
	AccountName   string
	AccountNumber string
}

type BookingConfig struct {
	OpenHour  int // first bookable slot, 24h clock
	CloseHour int // end of the operating window, exclusive
	Locations []string
}

// ShippingConfig maps delivery zone names to their cost in kobo.
type ShippingConfig struct {
	Zones       map[string]int64
	DefaultCost int64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "glam.events")
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("PAYSTACK_TIMEOUT_SECONDS", 15)
	viper.SetDefault("BOOKING_OPEN_HOUR", 8)
	viper.SetDefault("BOOKING_CLOSE_HOUR", 18)
	viper.SetDefault("BOOKING_LOCATIONS", "calabar,lagos")
	viper.SetDefault("SHIPPING_DEFAULT_COST", 150000)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
			TTLSecs:  viper.GetInt("CACHE_TTL_SECONDS"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(viper.GetString("KAFKA_BROKERS"), ","),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Paystack: PaystackConfig{
			BaseURL:       viper.GetString("PAYSTACK_BASE_URL"),
			SecretKey:     viper.GetString("PAYSTACK_SECRET_KEY"),
			WebhookSecret: viper.GetString("PAYSTACK_WEBHOOK_SECRET"),
			TimeoutSecs:   viper.GetInt("PAYSTACK_TIMEOUT_SECONDS"),
		},
		Bank: BankConfig{
			BankName:      viper.GetString("BANK_NAME"),
			AccountName:   viper.GetString("BANK_ACCOUNT_NAME"),
			AccountNumber: viper.GetString("BANK_ACCOUNT_NUMBER"),
		},
		Booking: BookingConfig{
			OpenHour:  viper.GetInt("BOOKING_OPEN_HOUR"),
			CloseHour: viper.GetInt("BOOKING_CLOSE_HOUR"),
			Locations: strings.Split(viper.GetString("BOOKING_LOCATIONS"), ","),
		},
		Shipping: ShippingConfig{
			Zones:       loadZones(),
			DefaultCost: viper.GetInt64("SHIPPING_DEFAULT_COST"),
		},
	}

	return config, nil
}

// loadZones parses SHIPPING_ZONES as "zone:cost,zone:cost" pairs (cost in kobo).
func loadZones() map[string]int64 {
	zones := make(map[string]int64)
	raw := viper.GetString("SHIPPING_ZONES")
	if raw == "" {
		return zones
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if v, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64); err == nil {
			zones[strings.TrimSpace(parts[0])] = v
		}
	}
	return zones
}
