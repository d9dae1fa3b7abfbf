package models

const (
	// DefaultSessionTTL lifetime of a booking session in the state store
	DefaultSessionTTL = 24 * 60 * 60 // 24 hours in seconds

	// MinCartEntries minimum selected slots required at submission
	MinCartEntries = 2

	// RateLimitRequests requests allowed per window
	RateLimitRequests = 30

	// RateLimitWindow request rate-limit window
	RateLimitWindow = 60 // 1 minute in seconds
)
