// Package constants provides shared constants for the mortgage-simulator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimal places used for currency rounding
	DecimalPlaces = 2

	// MaxFinancedShare is the share of the property value a program may finance
	MaxFinancedShare = 0.9

	// AffordabilityThreshold is the installment-to-income ratio above which an
	// advisory is raised
	AffordabilityThreshold = 0.30

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Input bounds accepted by the simulation engine.
const (
	MinPropertyValue = 1000.0
	MinGrossIncome   = 100.0
	MinTermMonths    = 12
	MaxTermMonths    = 420
	MinAge           = 18
	MaxAge           = 80
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatPDF writes a PDF report to the configured output file
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of configuration keys
	EnvPrefix = "MORTGAGE"
)

// Bracket table defaults
const (
	// DefaultTableSource is the bracket table loaded when none is configured
	DefaultTableSource = "financing_data.json"

	// DefaultTableTimeoutSeconds bounds a single table load
	DefaultTableTimeoutSeconds = 10

	// DefaultTableRetries is the retry count for remote table sources
	DefaultTableRetries = 2

	// DefaultRedisKey is the key holding the bracket table in Redis
	DefaultRedisKey = "financing_data"

	// DefaultSQLiteTable is the SQLite table holding bracket rows
	DefaultSQLiteTable = "faixas"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimit is the number of simulations a client may run per minute
	DefaultRateLimit = 60
)
