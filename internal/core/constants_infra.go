package core

import "time"

// HTTP client config constants
const (
	HTTPMaxIdleConns          = 10
	HTTPMaxIdleConnsPerHost   = 2
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 10 * time.Second
	HTTPResponseHeaderTimeout = 30 * time.Second
	HTTPExpectContinueTimeout = 1 * time.Second
	HTTPRequestTimeout        = 60 * time.Second
)

// Retry constants for channel pushes
const (
	DefaultRetryMax     = 0
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 10 * time.Second
)

// Metrics constants
const (
	HistoryBufferSize = 1000
)

// Response body size limits
const (
	MaxResponseBodySize = 10 * 1024 * 1024
	MaxRequestBodySize  = 5 << 20
)

// Logging config constants
const (
	MaxDebugFilePathLength = 260
)

// File permission constants
const (
	FilePermissionReadWrite = 0644
	DirPermission           = 0755
)

// File path constants
const (
	DefaultAccountsOutputFile = "accounts.json"
	DefaultAccountsStoreFile  = "data/accounts.json"
	DefaultPusherConfigFile   = "pusher.json"
)

// Time format constants
const (
	TimeFormatDateTime = "2006-01-02 15:04:05"
)
