package constants

import "time"

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID = "user_id"
)

// Authentication
const (
	MinPasswordLength = 8
	AccessTokenTTL    = 30 * time.Minute
	RefreshTokenTTL   = 7 * 24 * time.Hour
)

// Task delegation
const (
	// MaxDelegations caps how many times a task may be handed down its chain.
	MaxDelegations = 3
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// User search
const (
	MinSearchQueryLength = 2
	MaxSearchResults     = 20
)

// AI subtask suggestions
const (
	MaxSuggestedSubTasks = 10
)
