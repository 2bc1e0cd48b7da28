package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitPerMinute = 60
	DefaultRateLimitBurst     = 10

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBookingTimezone   = "UTC"
	DefaultOpeningTime       = "08:30"
	DefaultClosingTime       = "17:00"
	DefaultMaxBookingMinutes = 120
	DefaultDailyQuotaMinutes = 120
	DefaultAdmitLockWait     = 2 * time.Second

	DefaultPaginationLimit = 100
)

// DefaultBookingWeekdays are the days a room can be booked on.
var DefaultBookingWeekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
