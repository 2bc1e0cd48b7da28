package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roomly/pkg/client"
	"roomly/pkg/logger"
)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitPerMinute int
	RateLimitBurst     int

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Admission rules. OpeningTime/ClosingTime are HH:MM in BookingTimezone.
	BookingTimezone   string
	OpeningTime       string
	ClosingTime       string
	MaxBookingMinutes int
	DailyQuotaMinutes int
	BookingWeekdays   []string
	AdmitLockWait     time.Duration

	KafkaBrokers string

	Log    *logger.Logger
	Client *client.Client

	location *time.Location
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitPerMinute: getEnvNum(EnvRateLimitPerMinute, DefaultRateLimitPerMinute),
		RateLimitBurst:     getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BookingTimezone:   getEnvStr(EnvBookingTimezone, DefaultBookingTimezone),
		OpeningTime:       getEnvStr(EnvOpeningTime, DefaultOpeningTime),
		ClosingTime:       getEnvStr(EnvClosingTime, DefaultClosingTime),
		MaxBookingMinutes: getEnvNum(EnvMaxBookingMinutes, DefaultMaxBookingMinutes),
		DailyQuotaMinutes: getEnvNum(EnvDailyQuotaMinutes, DefaultDailyQuotaMinutes),
		BookingWeekdays:   getEnvList(EnvBookingWeekdays, DefaultBookingWeekdays),
		AdmitLockWait:     getEnvDuration(EnvAdmitLockWait, DefaultAdmitLockWait),

		KafkaBrokers: getEnvStr(EnvKafkaBrokers, ""),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// Location returns the IANA location every civil-time decision (weekday,
// operating hours, day bounds) is computed in. Valid after Validate.
func (cfg *Config) Location() *time.Location {
	return cfg.location
}

// Weekdays returns the allowed booking weekdays. Valid after Validate.
func (cfg *Config) Weekdays() map[time.Weekday]bool {
	allowed := make(map[time.Weekday]bool, len(cfg.BookingWeekdays))
	for _, name := range cfg.BookingWeekdays {
		allowed[weekdayNames[name]] = true
	}
	return allowed
}

// MinuteOfDay parses an HH:MM string into minutes since local midnight.
func MinuteOfDay(s string) (int, error) {
	if !timeOfDayRegex.MatchString(s) {
		return 0, fmt.Errorf("time of day must be HH:MM (00:00-23:59), got: %s", s)
	}
	parts := strings.SplitN(s, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour*60 + minute, nil
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"RequestTimeout", cfg.RequestTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"AdmitLockWait", cfg.AdmitLockWait},
	} {
		if d.value <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitPerMinute <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitPerMinute must be positive, got: %d", cfg.RateLimitPerMinute))
	}
	if cfg.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	loc, err := time.LoadLocation(cfg.BookingTimezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("BookingTimezone must be a valid IANA name, got: %s", cfg.BookingTimezone))
	} else {
		cfg.location = loc
	}

	opening, openErr := MinuteOfDay(cfg.OpeningTime)
	if openErr != nil {
		errs = append(errs, fmt.Sprintf("OpeningTime: %v", openErr))
	}
	closing, closeErr := MinuteOfDay(cfg.ClosingTime)
	if closeErr != nil {
		errs = append(errs, fmt.Sprintf("ClosingTime: %v", closeErr))
	}
	if openErr == nil && closeErr == nil && opening >= closing {
		errs = append(errs, fmt.Sprintf("OpeningTime (%s) must be before ClosingTime (%s)", cfg.OpeningTime, cfg.ClosingTime))
	}

	if cfg.MaxBookingMinutes <= 0 {
		errs = append(errs, fmt.Sprintf("MaxBookingMinutes must be positive, got: %d", cfg.MaxBookingMinutes))
	}
	if cfg.DailyQuotaMinutes <= 0 {
		errs = append(errs, fmt.Sprintf("DailyQuotaMinutes must be positive, got: %d", cfg.DailyQuotaMinutes))
	}

	if len(cfg.BookingWeekdays) == 0 {
		errs = append(errs, "BookingWeekdays cannot be empty")
	}
	for _, name := range cfg.BookingWeekdays {
		if _, ok := weekdayNames[name]; !ok {
			errs = append(errs, fmt.Sprintf("BookingWeekdays contains unknown day: %s", name))
		}
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_per_minute", cfg.RateLimitPerMinute,
		"rate_limit_burst", cfg.RateLimitBurst,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"booking_timezone", cfg.BookingTimezone,
		"opening_time", cfg.OpeningTime,
		"closing_time", cfg.ClosingTime,
		"max_booking_minutes", cfg.MaxBookingMinutes,
		"daily_quota_minutes", cfg.DailyQuotaMinutes,
		"booking_weekdays", cfg.BookingWeekdays,
		"admit_lock_wait", cfg.AdmitLockWait,
		"kafka_brokers_set", cfg.KafkaBrokers != "",
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
