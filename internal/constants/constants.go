// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// AppName is used for XDG directories, the env prefix and the database file name
const AppName = "outofschool"

// Network and Port Constants
const (
	// DefaultServerPort is the default port for the catalog API server
	DefaultServerPort = 8080

	// DefaultServerHost is the default bind address
	DefaultServerHost = "localhost"
)

// File System Permissions
const (
	// DirPermissions is the standard directory permissions for application directories
	DirPermissions = 0755

	// FilePermissions is the standard file permissions for config files
	FilePermissions = 0644
)

// Database Configuration
const (
	// DefaultMaxOpenConnections is the default maximum number of database connections
	DefaultMaxOpenConnections = 25

	// DefaultMaxIdleConnections is the default maximum number of idle database connections
	DefaultMaxIdleConnections = 5

	// DefaultConnectionTimeout is the default maximum lifetime of a pooled connection
	DefaultConnectionTimeout = 5 * time.Minute

	// DefaultIdleTimeout is the default database idle connection timeout
	DefaultIdleTimeout = 1 * time.Minute

	// DefaultConnectRetryTimeout bounds how long startup keeps retrying the first ping
	DefaultConnectRetryTimeout = 30 * time.Second
)

// HTTP Configuration
const (
	// DefaultServerReadTimeout is the default server read timeout
	DefaultServerReadTimeout = 10 * time.Second

	// DefaultServerWriteTimeout is the default server write timeout
	DefaultServerWriteTimeout = 10 * time.Second

	// DefaultServerShutdownTimeout is the default server graceful shutdown timeout
	DefaultServerShutdownTimeout = 30 * time.Second

	// DefaultRateLimit is the sustained number of requests per second allowed per client IP
	DefaultRateLimit = 20

	// DefaultRateBurst is the burst allowance per client IP
	DefaultRateBurst = 40
)

// Pagination Constants
const (
	// DefaultPageSize is the page size used when a request sends size=0 to a bounded endpoint
	DefaultPageSize = 12

	// MaxPageSize is the maximum allowed page size to prevent resource exhaustion
	MaxPageSize = 100
)

// Search Constants
const (
	// DefaultRadiusKm is applied to geo searches that send a point without a radius
	DefaultRadiusKm = 10.0

	// DefaultBreakerFailures is the number of consecutive index failures that opens the breaker
	DefaultBreakerFailures = 5

	// DefaultBreakerTimeout is how long the breaker stays open before probing again
	DefaultBreakerTimeout = 30 * time.Second

	// DefaultBackendCacheTTL is how long a backend switch lookup is reused
	DefaultBackendCacheTTL = 30 * time.Second

	// DefaultReindexBatchSize is the number of workshops read per batch during a rebuild
	DefaultReindexBatchSize = 200
)
