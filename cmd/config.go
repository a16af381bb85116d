package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"orders/internal/core/application/access"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/jobs"
	"orders/internal/pkg/errs"
)

// Config is read once at startup. String fields hold raw env values; the
// parsed fields are filled by LoadConfig.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers           string
	ProductExchange        string
	PriceRoutingKey        string
	ReserveRoutingKey      string
	RestoreRoutingKey      string
	NotificationExchange   string
	OrderCreatedRoutingKey string
	PricingReplyTopic      string
	PricingReplyGroup      string

	PricingTimeout     time.Duration
	PublishTimeout     time.Duration
	PricingConcurrency int
	AdminRole          string
	OutboxSchedule     string
	OutboxBatchSize    int
}

// UsePostgres reports whether a database is configured. Without one the
// service keeps orders in memory.
func (c Config) UsePostgres() bool {
	return c.DBHost != ""
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// ReplyGroup returns the consumer group of the pricing reply reader. Every
// instance needs its own group so it sees every reply; the hostname keeps
// that group stable across restarts of the same instance. The reader starts
// at the newest offset, so replies published before the group first joins
// are not delivered and the matching requests fail on their timeout.
func (c Config) ReplyGroup(hostname string) string {
	if c.PricingReplyGroup != "" {
		return c.PricingReplyGroup
	}
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		hostname = kernel.NewUUID().String()
	}
	return "order-service-pricing-" + hostname
}

// LoadConfig reads every setting through getenv and applies defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		HTTPPort:   env("HTTP_PORT", "8080"),
		DBHost:     env("DB_HOST", ""),
		DBPort:     env("DB_PORT", "5432"),
		DBUser:     env("DB_USER", ""),
		DBPassword: env("DB_PASSWORD", ""),
		DBName:     env("DB_NAME", ""),
		DBSslMode:  env("DB_SSLMODE", "disable"),

		KafkaBrokers:           env("KAFKA_BROKERS", ""),
		ProductExchange:        env("PRODUCT_EXCHANGE", "product-service-exchange"),
		PriceRoutingKey:        env("PRICE_ROUTING_KEY", "total-price"),
		ReserveRoutingKey:      env("RESERVE_ROUTING_KEY", "fetch-qty"),
		RestoreRoutingKey:      env("RESTORE_ROUTING_KEY", "restore-qty"),
		NotificationExchange:   env("NOTIFICATION_EXCHANGE", "notification-service-exchange"),
		OrderCreatedRoutingKey: env("ORDER_CREATED_ROUTING_KEY", "order-created"),
		PricingReplyTopic:      env("PRICING_REPLY_TOPIC", "order-service-price-replies"),
		PricingReplyGroup:      env("PRICING_REPLY_GROUP", ""),

		AdminRole:      env("ADMIN_ROLE", access.DefaultAdminRole),
		OutboxSchedule: env("OUTBOX_SCHEDULE", jobs.DefaultOutboxSchedule),
	}

	var errList []error

	timeout, err := time.ParseDuration(env("PRICING_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("PRICING_TIMEOUT", err))
	}
	cfg.PricingTimeout = timeout

	publishTimeout, err := time.ParseDuration(env("PUBLISH_TIMEOUT", "3s"))
	if err != nil || publishTimeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("PUBLISH_TIMEOUT", err))
	}
	cfg.PublishTimeout = publishTimeout

	cfg.PricingConcurrency, err = positiveInt("PRICING_CONCURRENCY", env("PRICING_CONCURRENCY", "1"))
	errList = append(errList, err)

	cfg.OutboxBatchSize, err = positiveInt("OUTBOX_BATCH_SIZE", env("OUTBOX_BATCH_SIZE", "100"))
	errList = append(errList, err)

	if cfg.KafkaBrokers == "" {
		errList = append(errList, errs.NewValueIsRequiredError("KAFKA_BROKERS"))
	}

	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func positiveInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if n < 1 {
		return 0, errs.NewValueIsOutOfRangeError(key, n, 1, "unbounded")
	}
	return n, nil
}
