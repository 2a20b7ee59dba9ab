package config

import "time"

// Default configuration values, overridable via environment variables
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"
	DefaultServiceName = "predictarena"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"

	DefaultDBUser     = "postgres"
	DefaultDBPassword = "postgres"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = "5432"
	DefaultDBName     = "predictarena"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultCacheSize = 1024

	DefaultSettlementInterval  = 30 * time.Second
	DefaultSettlementBatchSize = 50

	DefaultDeadLetterPath = "logs/deadletter.jsonl"

	DefaultShutdownTimeout = 30 * time.Second
)
