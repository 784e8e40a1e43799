package api

import "time"

type Config struct {
	HTTPAddr        string        `envconfig:"ACTIVITY_HTTP_ADDR" default:"0.0.0.0:8080"`
	MetricsAddr     string        `envconfig:"ACTIVITY_METRICS_ADDR" default:"0.0.0.0:9090"`
	GRPCAddr        string        `envconfig:"ACTIVITY_GRPC_ADDR" default:"0.0.0.0:9091"`
	StoreDriver     string        `envconfig:"ACTIVITY_STORE_DRIVER" default:"postgres"`
	DBDSN           string        `envconfig:"ACTIVITY_DB_DSN" required:"true"`
	LogLevel        string        `envconfig:"ACTIVITY_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"ACTIVITY_SHUTDOWN_TIMEOUT" default:"30s"`
	JWTSigningKey   string        `envconfig:"ACTIVITY_JWT_SIGNING_KEY" required:"true"`
	JWTIssuer       string        `envconfig:"ACTIVITY_JWT_ISSUER" default:""`
	AutoMigrate     bool          `envconfig:"ACTIVITY_AUTO_MIGRATE" default:"true"`
	DefaultPageSize int           `envconfig:"ACTIVITY_DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int           `envconfig:"ACTIVITY_MAX_PAGE_SIZE" default:"200"`
}
