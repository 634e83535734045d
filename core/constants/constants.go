package constants

import "time"

// Context keys.
const (
	ContextTokenData = "token_data"
)

// Token scopes.
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Redis key prefixes.
const (
	RedisKeyTokenBlacklist = "auth:blacklist:"
	RedisKeyFreeSlots      = "schedule:free-slots:"
)

// Role names. Reference data is seeded with these; the middleware role guard
// compares against them.
const (
	RoleOrganizer = "organizer"
	RoleSpeaker   = "speaker"
	RoleAttendee  = "attendee"
)

// Defaults.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second

	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"

	FreeSlotsCacheTTL = 30 * time.Second
)
