package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	DBDSN         string
	LogFile       string
	ShippingFee   int
	OrderTZ       string
	LedgerTimeout time.Duration

	DiscordWebhookURL string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	MailFrom          string
	OrderLookupBase   string
}

func Load() Config {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Addr:              getenv("ADDR", ":8080"),
		DBDSN:             getenv("DB_DSN", "fieldbasket.db"),
		LogFile:           getenv("LOG_FILE", "./fieldbasket.log"),
		ShippingFee:       getint("SHIPPING_FEE", 65),
		OrderTZ:           getenv("ORDER_TZ", "Asia/Taipei"),
		LedgerTimeout:     getdur("LEDGER_TIMEOUT", 15*time.Second),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          getint("SMTP_PORT", 465),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		MailFrom:          getenv("MAIL_FROM", "orders@fieldbasket.local"),
		OrderLookupBase:   getenv("ORDER_LOOKUP_BASE", "http://localhost:8080"),
	}
	log.Printf("[config] ADDR=%s DB_DSN=%s SHIPPING_FEE=%d ORDER_TZ=%s LOG_FILE=%s",
		cfg.Addr, cfg.DBDSN, cfg.ShippingFee, cfg.OrderTZ, cfg.LogFile)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
