package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitPerMinute = "RATE_LIMIT_PER_MINUTE"
	EnvRateLimitBurst     = "RATE_LIMIT_BURST"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBookingTimezone   = "BOOKING_TIMEZONE"
	EnvOpeningTime       = "OPENING_TIME"
	EnvClosingTime       = "CLOSING_TIME"
	EnvMaxBookingMinutes = "MAX_BOOKING_MINUTES"
	EnvDailyQuotaMinutes = "DAILY_QUOTA_MINUTES"
	EnvBookingWeekdays   = "BOOKING_WEEKDAYS"
	EnvAdmitLockWait     = "ADMIT_LOCK_WAIT"

	EnvKafkaBrokers = "KAFKA_BROKERS"
)
