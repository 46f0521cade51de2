package core

// Default config constants
const (
	DefaultPort      = "7861"
	DefaultGinMode   = "release"
	DefaultRateLimit = 120
	CORSMaxAge       = "86400"
)

// Content type and header constants
const (
	ContentTypeJSON     = "application/json"
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXAPIKey       = "x-api-key"
	HeaderRequestID     = "X-Request-ID"
	AuthBearerPrefix    = "Bearer "
)

// Batch import constants
const (
	BatchLineSeparator = "----"
)

// Redis key constants
const (
	AccountsRedisKey = "antigravity2newapi:accounts"
)
