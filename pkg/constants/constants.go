// Package constants provides shared constants for the broker engine.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// BaseCurrency is the currency every rate table entry is expressed against.
	BaseCurrency = "CAD"
)

// Input bounds enforced at the CLI and HTTP boundaries.
const (
	MinTermMonths = 1
	MaxTermMonths = 120

	MinDownPaymentPercent = 10.0
	MaxDownPaymentPercent = 50.0

	MaxPercentage = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. BROKER_SERVER_ADDRESS.
	EnvPrefix = "BROKER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultRateLimit is the number of requests a client may make per window
	DefaultRateLimit = 60

	// DefaultRateLimitWindow is the refill window for the rate limiter
	DefaultRateLimitWindow = "1m"

	// DefaultReadTimeout and DefaultWriteTimeout bound a single request
	DefaultReadTimeout  = "15s"
	DefaultWriteTimeout = "15s"

	// DefaultMaxBodyBytes caps calculation request bodies (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024
)

// Storage and cache defaults
const (
	DefaultDBPath    = "./broker.db"
	DefaultCacheTTL  = "10m"
	DefaultListLimit = 50
	MaxListLimit     = 500
)
